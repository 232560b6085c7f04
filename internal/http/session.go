package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/auth"
)

// SessionController binds a reader to a cookie session so that borrow and
// return requests may omit user_id.
type SessionController struct {
	sessions *auth.SessionManager
	auditor  SessionAuditor
}

// NewSessionController creates a SessionController. With a nil manager every
// endpoint answers 404. auditor may be nil.
func NewSessionController(sessions *auth.SessionManager, auditor SessionAuditor) *SessionController {
	return &SessionController{sessions: sessions, auditor: auditor}
}

type openSessionRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// SessionResponse describes the reader session. CSRFToken is only present
// once the session cookie has been sent back.
type SessionResponse struct {
	ReaderID  uint       `json:"reader_id"`
	OpenedAt  *time.Time `json:"opened_at,omitempty"`
	CSRFToken string     `json:"csrf_token,omitempty"`
}

func (sc *SessionController) enabled(c *gin.Context) bool {
	if sc.sessions == nil {
		respondNotFound(c, "reader sessions are disabled")
		return false
	}
	return true
}

func (sc *SessionController) logSession(c *gin.Context, readerID uint, action string, err error) {
	if sc.auditor != nil {
		sc.auditor.LogSession(c.Request.Context(), readerID, action, err)
	}
}

// OpenSession handles POST /session
func (sc *SessionController) OpenSession(c *gin.Context) {
	if !sc.enabled(c) {
		return
	}

	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	err := sc.sessions.OpenSession(c.Request, req.UserID)
	sc.logSession(c, req.UserID, "session_open", err)
	if err != nil {
		respondInternalError(c, err, "open session")
		return
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, SessionResponse{ReaderID: req.UserID, OpenedAt: &now})
}

// GetSession handles GET /session
// Clients read the CSRF token for later unsafe requests from here.
func (sc *SessionController) GetSession(c *gin.Context) {
	if !sc.enabled(c) {
		return
	}

	info := sc.sessions.Info(c.Request)
	if info == nil {
		respondNotFound(c, "no open session")
		return
	}

	token := auth.GetCSRFToken(c)
	if token != "" {
		c.Header(auth.CSRFTokenHeader, token)
	}

	resp := SessionResponse{ReaderID: info.ReaderID, CSRFToken: token}
	if !info.OpenedAt.IsZero() {
		resp.OpenedAt = &info.OpenedAt
	}
	c.JSON(http.StatusOK, resp)
}

// CloseSession handles DELETE /session
func (sc *SessionController) CloseSession(c *gin.Context) {
	if !sc.enabled(c) {
		return
	}

	readerID := sc.sessions.ReaderID(c.Request)
	err := sc.sessions.CloseSession(c.Request)
	sc.logSession(c, readerID, "session_close", err)
	if err != nil {
		respondInternalError(c, err, "close session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "session closed"})
}
