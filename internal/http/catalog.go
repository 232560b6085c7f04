package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/library"
)

type GenresController struct {
	store GenreStore
}

func NewGenresController(store GenreStore) *GenresController {
	return &GenresController{store: store}
}

// ListGenres handles GET /genres/
func (gc *GenresController) ListGenres(c *gin.Context) {
	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidation(c, err)
		return
	}

	genres, err := gc.store.ListGenres(c.Request.Context(), query.Page())
	if err != nil {
		respondLibraryError(c, err, "list genres")
		return
	}

	c.JSON(http.StatusOK, genres)
}

// CreateGenre handles POST /genres/
func (gc *GenresController) CreateGenre(c *gin.Context) {
	var req library.CreateGenreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	genre, err := gc.store.CreateGenre(c.Request.Context(), req)
	if err != nil {
		respondLibraryError(c, err, "create genre")
		return
	}

	c.JSON(http.StatusOK, genre)
}

type PublishersController struct {
	store PublisherStore
}

func NewPublishersController(store PublisherStore) *PublishersController {
	return &PublishersController{store: store}
}

// ListPublishers handles GET /publishers/
func (pc *PublishersController) ListPublishers(c *gin.Context) {
	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidation(c, err)
		return
	}

	publishers, err := pc.store.ListPublishers(c.Request.Context(), query.Page())
	if err != nil {
		respondLibraryError(c, err, "list publishers")
		return
	}

	c.JSON(http.StatusOK, publishers)
}

// CreatePublisher handles POST /publishers/
func (pc *PublishersController) CreatePublisher(c *gin.Context) {
	var req library.CreatePublisherInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	publisher, err := pc.store.CreatePublisher(c.Request.Context(), req)
	if err != nil {
		respondLibraryError(c, err, "create publisher")
		return
	}

	c.JSON(http.StatusOK, publisher)
}
