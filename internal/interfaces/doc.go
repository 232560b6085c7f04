// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Catalog and Lending
//
//   - AuthorStore, BookStore, GenreStore, PublisherStore: catalog operations
//     used by the HTTP controllers (internal/http/stores.go)
//   - LoanStore: borrow, return and borrow history (internal/http/stores.go)
//
// All of them are implemented by *library.Service, which owns validation,
// business rules and transactions. Controllers never talk to repositories.
//
// ## Audit Trail
//
//   - Recorder: receives an Event after every successful write
//     (internal/library/service.go)
//   - AuditReader, SessionAuditor: listing events and logging reader sessions
//     (internal/http/stores.go)
//
// ## Background Tasks
//
//   - TaskQueue: enqueue and inspect tasks from HTTP (internal/http/stores.go)
//   - Enqueuer: what the cron scheduler needs (internal/scheduler/audit_cleanup.go)
//   - AuditEventStore, AuditArchiver: dependencies of the cleanup task
//     (internal/tasks/cleanup_audit.go)
//
// # Adding a New Catalog Entity
//
// To add a new entity (e.g., series):
//
//  1. Add the model in internal/entities/ and register it in database.Migrate
//
//  2. Create a repository sub-package: internal/database/series/
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the operation to library.Service with a validated input struct
//
//     type CreateSeriesInput struct {
//         Name string `json:"name" binding:"required,max=100"`
//     }
//
//     func (s *Service) CreateSeries(ctx context.Context, in CreateSeriesInput) (*entities.Series, error)
//
//  4. Declare a narrow store interface and a controller in internal/http/,
//     then register the routes in router.go
//
//  5. Add a compile-time check:
//
//     var _ http.SeriesStore = (*library.Service)(nil)
//
// # Adding a New Background Task
//
//  1. Define the task type with a Config() method in internal/tasks/
//
//  2. Write a processor and a NewXQueue constructor
//
//  3. Register the queue in entrypoint.Build
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
