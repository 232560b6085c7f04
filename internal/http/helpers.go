package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/library"
	"github.com/mrlokans/library-api/internal/requestid"
	"github.com/mrlokans/library-api/internal/validation"
)

// Machine-readable error codes.
const (
	CodeBadRequest  = "bad_request"
	CodeValidation  = "validation_failed"
	CodeNotFound    = "not_found"
	CodeConflict    = "conflict"
	CodeInternal    = "internal_error"
	CodeUnavailable = "unavailable"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"` // field errors for validation failures
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

func newPaginatedResponse(data any, total int64, page database.Page) PaginatedResponse {
	page = page.Normalize()
	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Limit:      page.Limit,
		Offset:     page.Offset,
		HasMore:    int64(page.Offset+page.Limit) < total,
		TotalPages: totalPages,
	}
}

// PageQuery is the limit/offset pair accepted by list endpoints.
type PageQuery struct {
	Limit  int `form:"limit,default=10" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

func (q PageQuery) Page() database.Page {
	return database.Page{Limit: q.Limit, Offset: q.Offset}
}

// --- Error Response Helpers ---

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeBadRequest, message)
}

func respondNotFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, CodeNotFound, message)
}

// respondValidation sends a 422 with one entry per rejected field.
func respondValidation(c *gin.Context, err error) {
	var fields []validation.FieldError
	var verr *library.ValidationError
	if errors.As(err, &verr) {
		fields = verr.Fields
	} else {
		fields = validation.Describe(err)
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    CodeValidation,
		Details: fields,
	})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s) [request %s]: %v", context, c.GetString(requestid.ContextKey), err)
	respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}

// respondLibraryError maps a library service error onto its status code.
func respondLibraryError(c *gin.Context, err error, context string) {
	var notFound *library.NotFoundError
	var conflict *library.ConflictError

	switch {
	case errors.Is(err, library.ErrValidation):
		respondValidation(c, err)
	case errors.As(err, &notFound):
		respondNotFound(c, notFound.Error())
	case errors.As(err, &conflict):
		respondError(c, http.StatusBadRequest, CodeConflict, conflict.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}
