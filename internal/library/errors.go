package library

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/library-api/internal/validation"
)

// Sentinels for errors.Is checks. The typed errors below match them.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")

	ErrAlreadyBorrowed    = errors.New("book already borrowed")
	ErrBorrowLimitReached = errors.New("borrow limit reached")
	ErrDuplicateName      = errors.New("duplicate name")
)

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	Message  string
}

func notFound(resource, message string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: message}
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports a uniqueness or business-rule violation.
type ConflictError struct {
	Reason  error
	Message string
}

func conflict(reason error, message string) *ConflictError {
	return &ConflictError{Reason: reason, Message: message}
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Reason.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Reason
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ValidationError carries field-level details for malformed input.
type ValidationError struct {
	Fields []validation.FieldError
}

func invalid(err error) *ValidationError {
	return &ValidationError{Fields: validation.Describe(err)}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a failed store operation. The transaction it ran in has
// been rolled back by the time the caller sees it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// isDomainError reports errors the service raises on purpose, which pass
// through a transaction unchanged.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrStorage)
}
