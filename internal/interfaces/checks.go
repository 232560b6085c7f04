package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library-api/internal/audit"
	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/http"
	"github.com/mrlokans/library-api/internal/library"
	"github.com/mrlokans/library-api/internal/scheduler"
	"github.com/mrlokans/library-api/internal/tasks"
)

// =============================================================================
// Catalog and Lending
// =============================================================================

var _ http.AuthorStore = (*library.Service)(nil)
var _ http.BookStore = (*library.Service)(nil)
var _ http.GenreStore = (*library.Service)(nil)
var _ http.PublisherStore = (*library.Service)(nil)
var _ http.LoanStore = (*library.Service)(nil)

// Health checks
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ library.Recorder = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ http.SessionAuditor = (*audit.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.AuditEventStore = (*audit.Service)(nil)
var _ tasks.AuditArchiver = (*audit.Archiver)(nil)
