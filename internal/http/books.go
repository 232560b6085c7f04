package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/library"
)

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

// BookListQuery holds the query parameters of GET /books.
type BookListQuery struct {
	PageQuery
	SortBy string `form:"sort_by" binding:"omitempty,oneof=title publish_date author"`
	Order  string `form:"order,default=asc" binding:"oneof=asc desc"`
}

func (q BookListQuery) Options() database.BookListOptions {
	return database.BookListOptions{
		Page:   q.Page(),
		SortBy: database.SortField(q.SortBy),
		Order:  database.SortOrder(q.Order),
	}
}

// GetBooks handles GET /books
func (bc *BooksController) GetBooks(c *gin.Context) {
	var query BookListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidation(c, err)
		return
	}

	books, err := bc.store.ListBooks(c.Request.Context(), query.Options())
	if err != nil {
		respondLibraryError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, books)
}

// CreateBook handles POST /books/
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req library.CreateBookInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	book, err := bc.store.CreateBook(c.Request.Context(), req)
	if err != nil {
		respondLibraryError(c, err, "create book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// GetBook handles GET /books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBook(c.Request.Context(), bookID)
	if err != nil {
		respondLibraryError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// GetBookHistory handles GET /books/:id/history
func (bc *BooksController) GetBookHistory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	history, err := bc.store.BookHistory(c.Request.Context(), bookID)
	if err != nil {
		respondLibraryError(c, err, "book history")
		return
	}

	c.JSON(http.StatusOK, history)
}
