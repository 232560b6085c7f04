package auth

import "github.com/gin-gonic/gin"

// ContextKeyReaderID holds the session's reader ID in the gin context.
const ContextKeyReaderID = "reader_id"

// ReaderContext copies the session's reader into the gin context so that
// handlers do not need the session manager.
func (sm *SessionManager) ReaderContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if readerID := sm.ReaderID(c.Request); readerID != 0 {
			c.Set(ContextKeyReaderID, readerID)
		}
		c.Next()
	}
}

// GetReaderID returns the reader bound to the request's session, or 0.
func GetReaderID(c *gin.Context) uint {
	if v, ok := c.Get(ContextKeyReaderID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
