package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-api/internal/auth"
	"github.com/mrlokans/library-api/internal/readonly"
	"github.com/mrlokans/library-api/internal/requestid"
	"github.com/mrlokans/library-api/internal/validation"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// The audit listing is mounted only when an audit service is set.
func NewRouter(cfg RouterConfig) *gin.Engine {
	validation.UseWithGin(cfg.Library.Validator())

	router := gin.New()
	router.Use(requestid.Middleware())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	prefix := cfg.prefix()
	api := router.Group(prefix)

	// Opening and closing a reader session stays possible in read-only mode.
	api.Use(readonly.NewMiddleware(cfg.ReadOnly, prefix+"/session").Handler())

	if cfg.Sessions != nil {
		// CSRF must run before session so that session context is preserved
		if len(cfg.CSRFSecret) > 0 {
			api.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
		}
		api.Use(cfg.Sessions.SessionLoadSave())
		api.Use(cfg.Sessions.ReaderContext())
	}

	var pinger Pinger
	if cfg.Database != nil {
		pinger = cfg.Database
	}
	health := NewHealthController(pinger, cfg.Version)

	authors := NewAuthorsController(cfg.Library)
	books := NewBooksController(cfg.Library)
	genres := NewGenresController(cfg.Library)
	publishers := NewPublishersController(cfg.Library)
	loans := NewLoansController(cfg.Library)

	var queue TaskQueue
	if cfg.Tasks != nil {
		queue = cfg.Tasks
	}
	tasksController := NewTasksController(queue, cfg.AuditRetentionDays)

	var auditor SessionAuditor
	if cfg.Audit != nil {
		auditor = cfg.Audit
	}
	session := NewSessionController(cfg.Sessions, auditor)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Catalog
	api.GET("/author/:id/books", authors.GetAuthorBooks)
	collection(api, "POST", "/author", authors.CreateAuthor)
	collection(api, "GET", "/books", books.GetBooks)
	collection(api, "POST", "/books", books.CreateBook)
	api.GET("/books/:id", books.GetBook)
	api.GET("/books/:id/history", books.GetBookHistory)
	collection(api, "GET", "/genres", genres.ListGenres)
	collection(api, "POST", "/genres", genres.CreateGenre)
	collection(api, "GET", "/publishers", publishers.ListPublishers)
	collection(api, "POST", "/publishers", publishers.CreatePublisher)

	// Loans
	collection(api, "POST", "/borrow", loans.Borrow)
	collection(api, "POST", "/return", loans.Return)
	api.GET("/users/:id/borrows", loans.GetUserBorrows)

	// Audit log
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	// Task management endpoints
	api.POST("/tasks/audit-cleanup", tasksController.RunAuditCleanup)
	api.GET("/tasks/:id", tasksController.GetTaskStatus)

	// Reader session
	api.POST("/session", session.OpenSession)
	api.GET("/session", session.GetSession)
	api.DELETE("/session", session.CloseSession)

	return router
}

// collection registers a handler on both path and path + "/", so clients
// are not redirected over the trailing slash.
func collection(group *gin.RouterGroup, method, path string, handler gin.HandlerFunc) {
	group.Handle(method, path, handler)
	group.Handle(method, path+"/", handler)
}
