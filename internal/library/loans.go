package library

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/database/books"
	"github.com/mrlokans/library-api/internal/database/loans"
	"github.com/mrlokans/library-api/internal/entities"
)

type BorrowInput struct {
	UserID uint `json:"user_id" binding:"required"`
	BookID uint `json:"book_id" binding:"required"`
}

type ReturnInput struct {
	UserID uint `json:"user_id" binding:"required"`
	BookID uint `json:"book_id" binding:"required"`
}

const returnNotFoundMessage = "Borrow with for this book and user not found"

// BorrowBook opens a borrow of a book for a user.
//
// The availability and limit checks run inside the insert itself, so two
// concurrent borrows of one book cannot both succeed.
func (s *Service) BorrowBook(ctx context.Context, in BorrowInput) (*entities.Borrow, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var borrow *entities.Borrow
	err := s.inTx(ctx, "borrow book", func(tx *gorm.DB) error {
		exists, err := books.NewRepository(tx).BookExists(in.BookID)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("book", "Book not found")
		}

		repo := loans.NewRepository(tx)
		inserted, err := repo.InsertBorrowIfAllowed(in.UserID, in.BookID, s.limit)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflict(ErrAlreadyBorrowed, "Book already borrowed")
		}
		if err != nil {
			return err
		}
		if !inserted {
			return refusalReason(repo, in.UserID, in.BookID, s.limit)
		}

		borrow, err = repo.GetOpenBorrowForBook(in.BookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, Event{
		Type:        entities.AuditEventBorrow,
		Action:      "book_borrow",
		UserID:      borrow.UserID,
		EntityType:  "book",
		EntityID:    borrow.BookID,
		Description: fmt.Sprintf("User %d borrowed book %d", borrow.UserID, borrow.BookID),
		Metadata:    map[string]any{"borrow_id": borrow.ID},
	})
	return borrow, nil
}

// refusalReason explains why the conditional insert wrote nothing. An open
// borrow takes precedence over the per-user limit. When neither holds any
// more, a concurrent return freed the book after the insert saw it on loan.
func refusalReason(repo *loans.Repository, userID, bookID uint, limit loans.Limit) error {
	_, err := repo.GetOpenBorrowForBook(bookID)
	if err == nil {
		return conflict(ErrAlreadyBorrowed, "Book already borrowed")
	}
	if !isRecordNotFound(err) {
		return err
	}

	count, err := repo.CountBorrowsForUser(userID, limit.OpenOnly)
	if err != nil {
		return err
	}
	if count >= int64(limit.Max) {
		return conflict(ErrBorrowLimitReached, "User already borrowed too much books")
	}
	return conflict(ErrAlreadyBorrowed, "Book already borrowed")
}

// ReturnBook closes the open borrow the user holds on the book and records
// the return. Both writes commit together.
func (s *Service) ReturnBook(ctx context.Context, in ReturnInput) (*entities.Return, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	ret := &entities.Return{UserID: in.UserID, BookID: in.BookID}
	err := s.inTx(ctx, "return book", func(tx *gorm.DB) error {
		repo := loans.NewRepository(tx)
		borrow, err := repo.GetOpenBorrow(in.UserID, in.BookID)
		if err != nil {
			if isRecordNotFound(err) {
				return notFound("borrow", returnNotFoundMessage)
			}
			return err
		}

		closed, err := repo.CloseBorrow(borrow.ID)
		if err != nil {
			return err
		}
		if !closed {
			return notFound("borrow", returnNotFoundMessage)
		}

		ret.CreatedAt = s.now().UTC()
		return repo.CreateReturn(ret)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, Event{
		Type:        entities.AuditEventReturn,
		Action:      "book_return",
		UserID:      ret.UserID,
		EntityType:  "book",
		EntityID:    ret.BookID,
		Description: fmt.Sprintf("User %d returned book %d", ret.UserID, ret.BookID),
		Metadata:    map[string]any{"return_id": ret.ID},
	})
	return ret, nil
}

// BookHistory returns every borrow and return of a book in insertion order.
func (s *Service) BookHistory(ctx context.Context, bookID uint) (*entities.BookHistory, error) {
	db := s.db.WithContext(ctx)

	exists, err := books.NewRepository(db).BookExists(bookID)
	if err != nil {
		return nil, storageErr("book history", err)
	}
	if !exists {
		return nil, notFound("book", "Book not found")
	}

	repo := loans.NewRepository(db)
	borrows, err := repo.GetBorrowsForBook(bookID)
	if err != nil {
		return nil, storageErr("book history", err)
	}
	returns, err := repo.GetReturnsForBook(bookID)
	if err != nil {
		return nil, storageErr("book history", err)
	}

	return &entities.BookHistory{Borrows: borrows, Returns: returns}, nil
}

// UserBorrows lists a user's borrows, optionally only those still open.
func (s *Service) UserBorrows(ctx context.Context, userID uint, openOnly bool) ([]entities.Borrow, error) {
	borrows, err := loans.NewRepository(s.db.WithContext(ctx)).GetBorrowsForUser(userID, openOnly)
	if err != nil {
		return nil, storageErr("user borrows", err)
	}
	return borrows, nil
}
