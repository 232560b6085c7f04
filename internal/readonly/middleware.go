// Package readonly turns the API into a read-only mirror: catalog and loan
// writes are refused while reads keep working.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKey marks requests served in read-only mode.
const ContextKey = "read_only"

// Middleware blocks unsafe methods when enabled. Paths listed as exempt,
// such as opening a reader session, pass through.
type Middleware struct {
	enabled bool
	exempt  []string
}

func NewMiddleware(enabled bool, exempt ...string) *Middleware {
	return &Middleware{enabled: enabled, exempt: exempt}
}

func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns the gin middleware.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKey, m.enabled)

		if !m.enabled || isSafe(c.Request.Method) || m.isExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "The library is in read-only mode",
			"code":  "read_only",
		})
	}
}

func isSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func (m *Middleware) isExempt(path string) bool {
	for _, prefix := range m.exempt {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
