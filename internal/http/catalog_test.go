package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-api/internal/entities"
)

func TestGenresController(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/genres/", map[string]any{"name": "Drama"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		genre := decode[entities.Genre](t, w)
		assert.NotZero(t, genre.ID)
		assert.Equal(t, "Drama", genre.Name)
	})

	t.Run("duplicate", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/genres/", map[string]any{"name": "Drama"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Genre already exist", decode[ErrorResponse](t, w).Error)
	})

	t.Run("empty name", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/genres/", map[string]any{"name": "   "})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("list is paginated", func(t *testing.T) {
		for i := 0; i < 12; i++ {
			w := doJSON(t, router, http.MethodPost, "/api/genres", map[string]any{"name": fmt.Sprintf("Genre %02d", i)})
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := doJSON(t, router, http.MethodGet, "/api/genres/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]entities.Genre](t, w), 10)

		w = doJSON(t, router, http.MethodGet, "/api/genres/?limit=5&offset=10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		page := decode[[]entities.Genre](t, w)
		require.Len(t, page, 3)
		assert.Equal(t, "Genre 09", page[0].Name)
	})

	t.Run("bad limit", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/genres/?limit=1000", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestPublishersController(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/publishers/", map[string]any{"name": "Ace Books"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	publisher := decode[entities.Publisher](t, w)
	assert.Equal(t, "Ace Books", publisher.Name)

	w = doJSON(t, router, http.MethodPost, "/api/publishers/", map[string]any{"name": "Ace Books"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Publisher already exist", decode[ErrorResponse](t, w).Error)

	w = doJSON(t, router, http.MethodPost, "/api/publishers/", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/publishers/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]entities.Publisher](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, publisher.ID, list[0].ID)
}
