package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/entities"
	"github.com/mrlokans/library-api/internal/library"
)

// Each controller depends on the narrow slice of the library service it
// calls. *library.Service satisfies all of the catalog and loan interfaces.

// AuthorStore creates authors and lists their books.
type AuthorStore interface {
	CreateAuthor(ctx context.Context, in library.CreateAuthorInput) (*entities.Author, error)
	AuthorBooks(ctx context.Context, authorID uint) ([]entities.Book, error)
}

// BookStore creates, fetches and lists books.
type BookStore interface {
	CreateBook(ctx context.Context, in library.CreateBookInput) (*entities.Book, error)
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
	ListBooks(ctx context.Context, opts database.BookListOptions) ([]entities.Book, error)
	BookHistory(ctx context.Context, bookID uint) (*entities.BookHistory, error)
}

// GenreStore creates and lists genres.
type GenreStore interface {
	CreateGenre(ctx context.Context, in library.CreateGenreInput) (*entities.Genre, error)
	ListGenres(ctx context.Context, page database.Page) ([]entities.Genre, error)
}

// PublisherStore creates and lists publishers.
type PublisherStore interface {
	CreatePublisher(ctx context.Context, in library.CreatePublisherInput) (*entities.Publisher, error)
	ListPublishers(ctx context.Context, page database.Page) ([]entities.Publisher, error)
}

// LoanStore runs the borrow/return workflow.
type LoanStore interface {
	BorrowBook(ctx context.Context, in library.BorrowInput) (*entities.Borrow, error)
	ReturnBook(ctx context.Context, in library.ReturnInput) (*entities.Return, error)
	UserBorrows(ctx context.Context, userID uint, openOnly bool) ([]entities.Borrow, error)
}

// AuditReader lists recorded audit events.
type AuditReader interface {
	GetEvents(userID uint, eventType entities.AuditEventType, page database.Page) ([]entities.AuditEvent, int64, error)
}

// SessionAuditor records reader session changes.
type SessionAuditor interface {
	LogSession(ctx context.Context, readerID uint, action string, err error)
}

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
