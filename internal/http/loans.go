package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/auth"
	"github.com/mrlokans/library-api/internal/library"
)

type LoansController struct {
	store LoanStore
}

func NewLoansController(store LoanStore) *LoansController {
	return &LoansController{store: store}
}

// LoanRequest is the body of POST /borrow/ and POST /return/.
// Clients may also send is_done on a borrow; it is ignored.
type LoanRequest struct {
	UserID *uint `json:"user_id"`
	BookID uint  `json:"book_id" binding:"required"`
}

// userID prefers the explicit user_id and falls back to the reader session.
// Zero means neither was given, which the service rejects as a validation error.
func (r LoanRequest) userID(c *gin.Context) uint {
	if r.UserID != nil {
		return *r.UserID
	}
	return auth.GetReaderID(c)
}

// Borrow handles POST /borrow/
func (lc *LoansController) Borrow(c *gin.Context) {
	var req LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	borrow, err := lc.store.BorrowBook(c.Request.Context(), library.BorrowInput{
		UserID: req.userID(c),
		BookID: req.BookID,
	})
	if err != nil {
		respondLibraryError(c, err, "borrow book")
		return
	}

	c.JSON(http.StatusOK, borrow)
}

// Return handles POST /return/
func (lc *LoansController) Return(c *gin.Context) {
	var req LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	ret, err := lc.store.ReturnBook(c.Request.Context(), library.ReturnInput{
		UserID: req.userID(c),
		BookID: req.BookID,
	})
	if err != nil {
		respondLibraryError(c, err, "return book")
		return
	}

	c.JSON(http.StatusOK, ret)
}

type userBorrowsQuery struct {
	Open bool `form:"open"`
}

// GetUserBorrows handles GET /users/:id/borrows
// With ?open=true only the borrows still on loan are listed.
func (lc *LoansController) GetUserBorrows(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var query userBorrowsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidation(c, err)
		return
	}

	borrows, err := lc.store.UserBorrows(c.Request.Context(), userID, query.Open)
	if err != nil {
		respondLibraryError(c, err, "user borrows")
		return
	}

	c.JSON(http.StatusOK, borrows)
}
