// Package library implements the catalog and the borrow/return workflow on
// top of the database repositories.
//
// Every mutating operation runs in one transaction: repositories are built
// on the transaction handle and the transaction commits or rolls back on
// every exit path. Errors are one of ValidationError, NotFoundError,
// ConflictError or StorageError.
//
// # Usage
//
//	svc := library.NewService(db.DB, library.Options{MaxBorrowsPerUser: 3})
//	borrow, err := svc.BorrowBook(ctx, library.BorrowInput{UserID: 1, BookID: 7})
//	if errors.Is(err, library.ErrAlreadyBorrowed) {
//		// the book is on loan
//	}
package library

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/config"
	"github.com/mrlokans/library-api/internal/database/loans"
	"github.com/mrlokans/library-api/internal/entities"
	"github.com/mrlokans/library-api/internal/validation"
)

// Options tune the service rules.
type Options struct {
	MaxBorrowsPerUser    int
	CountOpenBorrowsOnly bool
	Now                  func() time.Time
}

// OptionsFromConfig maps the library config group onto Options.
func OptionsFromConfig(cfg config.Library) Options {
	return Options{
		MaxBorrowsPerUser:    cfg.MaxBorrowsPerUser,
		CountOpenBorrowsOnly: cfg.CountOpenBorrowsOnly,
	}
}

// Event describes a successful mutation for the audit trail.
type Event struct {
	Type        entities.AuditEventType
	Action      string
	UserID      uint
	EntityType  string
	EntityID    uint
	Description string
	Metadata    map[string]any
}

// Recorder receives events after their transaction committed.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

type Service struct {
	db       *gorm.DB
	validate *validator.Validate
	limit    loans.Limit
	now      func() time.Time
	recorder Recorder
}

func NewService(db *gorm.DB, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxBorrowsPerUser <= 0 {
		opts.MaxBorrowsPerUser = config.DefaultMaxBorrowsPerUser
	}
	return &Service{
		db:       db,
		validate: validation.New(opts.Now),
		limit:    loans.Limit{Max: opts.MaxBorrowsPerUser, OpenOnly: opts.CountOpenBorrowsOnly},
		now:      opts.Now,
	}
}

// SetRecorder attaches the audit recorder. A nil recorder disables auditing.
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// Validator returns the validator the service checks inputs with, so the
// HTTP layer can reject the same payloads before calling in.
func (s *Service) Validator() *validator.Validate {
	return s.validate
}

func (s *Service) check(input any) error {
	if err := s.validate.Struct(input); err != nil {
		return invalid(err)
	}
	return nil
}

// inTx runs fn in a transaction bound to ctx. Errors that are not domain
// errors are wrapped as StorageError under op.
func (s *Service) inTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	return storageErr(op, err)
}

func storageErr(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (s *Service) record(ctx context.Context, event Event) {
	if s.recorder != nil {
		s.recorder.Record(ctx, event)
	}
}

// NormalizeName trims surrounding space and applies Unicode NFC so that
// visually identical names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
