package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/library"
)

type AuthorsController struct {
	store AuthorStore
}

func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

// CreateAuthor handles POST /author/
func (ac *AuthorsController) CreateAuthor(c *gin.Context) {
	var req library.CreateAuthorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	author, err := ac.store.CreateAuthor(c.Request.Context(), req)
	if err != nil {
		respondLibraryError(c, err, "create author")
		return
	}

	c.JSON(http.StatusOK, author)
}

// GetAuthorBooks handles GET /author/:id/books
// An unknown author has no books, so the list is empty rather than a 404.
func (ac *AuthorsController) GetAuthorBooks(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := ac.store.AuthorBooks(c.Request.Context(), authorID)
	if err != nil {
		respondLibraryError(c, err, "author books")
		return
	}

	c.JSON(http.StatusOK, books)
}
