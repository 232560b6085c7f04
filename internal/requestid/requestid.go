// Package requestid tags every request with an identifier that is echoed in
// the X-Request-ID response header and attached to audit events.
//
// An incoming X-Request-ID header is reused when it is short and printable,
// otherwise a new UUID is generated.
package requestid

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderName = "X-Request-ID"
	ContextKey = "request_id"

	maxLength = 64
)

type ctxKey struct{}

// Middleware assigns the request ID and stores it in both the gin context and
// the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderName)
		if !acceptable(id) {
			id = uuid.NewString()
		}

		c.Set(ContextKey, id)
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), id))
		c.Header(HeaderName, id)
		c.Next()
	}
}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func acceptable(id string) bool {
	if id == "" || len(id) > maxLength {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
