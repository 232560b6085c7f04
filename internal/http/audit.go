package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/entities"
)

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

type auditQuery struct {
	PageQuery
	Type   string `form:"type" binding:"omitempty,oneof=catalog borrow return session"`
	UserID uint   `form:"user_id"`
}

// GetAuditEvents returns paginated audit events as JSON
// GET /audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	var query auditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidation(c, err)
		return
	}

	page := query.Page()
	events, total, err := ac.reader.GetEvents(query.UserID, entities.AuditEventType(query.Type), page)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(events, total, page))
}
