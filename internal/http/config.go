package http

import (
	"github.com/mrlokans/library-api/internal/audit"
	"github.com/mrlokans/library-api/internal/auth"
	"github.com/mrlokans/library-api/internal/config"
	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/library"
	"github.com/mrlokans/library-api/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Library  *library.Service
	Database *database.Database

	// Optional: audit listing and session auditing
	Audit *audit.Service

	// Optional: background tasks
	Tasks              *tasks.Client
	AuditRetentionDays int

	// Optional: reader sessions. CSRF protection is enabled when both the
	// session manager and the secret are set.
	Sessions      *auth.SessionManager
	CSRFSecret    []byte
	SecureCookies bool

	// Reject write requests with 403
	ReadOnly bool

	// Route prefix for the library API, "/api" when empty
	APIPrefix string

	// Application info
	Version string
}

func (cfg RouterConfig) prefix() string {
	if cfg.APIPrefix == "" {
		return config.DefaultAPIPrefix
	}
	return cfg.APIPrefix
}
