package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-api/internal/entities"
	"github.com/mrlokans/library-api/internal/library"
)

func TestBooksController_CreateBook(t *testing.T) {
	t.Run("creates a book with relations", func(t *testing.T) {
		router, env := setupTestRouter(t)
		author := seedAuthor(t, env, "Author")
		genre, err := env.library.CreateGenre(context.Background(), library.CreateGenreInput{Name: "Drama"})
		require.NoError(t, err)
		publisher, err := env.library.CreatePublisher(context.Background(), library.CreatePublisherInput{Name: "Pub"})
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodPost, "/api/books/", map[string]any{
			"title":        "Book",
			"isbn":         "0-441-47812-3",
			"publish_date": "2001-05-01T10:00:00Z",
			"author_id":    author.ID,
			"publisher_id": publisher.ID,
			"genre_ids":    []uint{genre.ID, genre.ID},
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		book := decode[entities.Book](t, w)
		assert.NotZero(t, book.ID)
		require.NotNil(t, book.Author)
		assert.Equal(t, "Author", book.Author.Name)
		require.NotNil(t, book.Publisher)
		assert.Equal(t, "Pub", book.Publisher.Name)
		require.Len(t, book.Genres, 1)
		assert.Equal(t, "Drama", book.Genres[0].Name)
	})

	t.Run("invalid book payload", func(t *testing.T) {
		router, env := setupTestRouter(t)
		author := seedAuthor(t, env, "Author")

		w := doJSON(t, router, http.MethodPost, "/api/books/", map[string]any{
			"title":        "Dune",
			"isbn":         "not-an-isbn",
			"publish_date": "2999-01-01",
			"author_id":    author.ID,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		g := goldie.New(t)
		g.Assert(t, "invalid_book", w.Body.Bytes())
	})

	t.Run("missing references", func(t *testing.T) {
		router, env := setupTestRouter(t)
		author := seedAuthor(t, env, "Author")

		tests := []struct {
			name    string
			extra   map[string]any
			message string
		}{
			{"author", map[string]any{"author_id": 999}, "Author not found"},
			{"publisher", map[string]any{"publisher_id": 999}, "Publisher not found"},
			{"genre", map[string]any{"genre_ids": []uint{999}}, "One or more genres not found"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				body := map[string]any{
					"title":        "Book",
					"isbn":         "1-2-3-4",
					"publish_date": "2001-01-01",
					"author_id":    author.ID,
				}
				for k, v := range tt.extra {
					body[k] = v
				}

				w := doJSON(t, router, http.MethodPost, "/api/books/", body)

				assert.Equal(t, http.StatusNotFound, w.Code)
				resp := decode[ErrorResponse](t, w)
				assert.Equal(t, tt.message, resp.Error)
				assert.Equal(t, CodeNotFound, resp.Code)
			})
		}
	})
}

func TestBooksController_GetBooks(t *testing.T) {
	router, env := setupTestRouter(t)
	zed := seedAuthor(t, env, "Zed")
	amy := seedAuthor(t, env, "Amy")
	seedBook(t, env, zed.ID, "Bravo", "2003-01-01")
	seedBook(t, env, amy.ID, "Charlie", "2001-01-01")
	seedBook(t, env, zed.ID, "Alpha", "2002-01-01")

	titles := func(books []entities.Book) []string {
		out := make([]string, 0, len(books))
		for _, b := range books {
			out = append(out, b.Title)
		}
		return out
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"default order", "", []string{"Bravo", "Charlie", "Alpha"}},
		{"by title", "?sort_by=title", []string{"Alpha", "Bravo", "Charlie"}},
		{"by title desc", "?sort_by=title&order=desc", []string{"Charlie", "Bravo", "Alpha"}},
		{"by publish date", "?sort_by=publish_date", []string{"Charlie", "Alpha", "Bravo"}},
		{"by author", "?sort_by=author", []string{"Charlie", "Bravo", "Alpha"}},
		{"limit", "?sort_by=title&limit=2", []string{"Alpha", "Bravo"}},
		{"offset", "?sort_by=title&limit=2&offset=2", []string{"Charlie"}},
		{"offset past the end", "?offset=10", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, "/api/books"+tt.query, nil)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, titles(decode[[]entities.Book](t, w)))
		})
	}

	t.Run("rejects bad query parameters", func(t *testing.T) {
		for _, query := range []string{"?limit=0", "?limit=101", "?offset=-1", "?sort_by=isbn", "?order=up", "?limit=ten"} {
			w := doJSON(t, router, http.MethodGet, "/api/books"+query, nil)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, query)
			assert.Equal(t, CodeValidation, decode[ErrorResponse](t, w).Code, query)
		}
	})
}

func TestBooksController_GetBook(t *testing.T) {
	router, env := setupTestRouter(t)
	author := seedAuthor(t, env, "Author")
	book := seedBook(t, env, author.ID, "Book", "2000-01-01")

	t.Run("existing book", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books/"+itoa(book.ID), nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[entities.Book](t, w)
		assert.Equal(t, book.ID, got.ID)
		assert.Equal(t, "Book", got.Title)
		require.NotNil(t, got.Author)
		assert.Equal(t, "Author", got.Author.Name)
	})

	t.Run("unknown book", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books/999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Book not found", decode[ErrorResponse](t, w).Error)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooksController_GetBookHistory(t *testing.T) {
	router, env := setupTestRouter(t)
	author := seedAuthor(t, env, "Author")
	book := seedBook(t, env, author.ID, "Book", "2000-01-01")

	t.Run("empty history", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books/"+itoa(book.ID)+"/history", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"borrows":[],"returns":[]}`, w.Body.String())
	})

	t.Run("unknown book", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/books/999/history", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Book not found", decode[ErrorResponse](t, w).Error)
	})
}
