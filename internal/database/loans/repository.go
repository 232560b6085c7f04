// Package loans provides database operations for the borrow/return workflow.
//
// The open-borrow rule is enforced by the store: a borrow is inserted with a
// single conditional INSERT ... SELECT, and the partial unique index
// idx_borrows_open_book rejects a second open borrow for the same book.
//
// # Usage
//
//	repo := loans.NewRepository(tx)
//	inserted, err := repo.InsertBorrowIfAllowed(userID, bookID, loans.Limit{Max: 3})
package loans

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/database"
	"github.com/mrlokans/library-api/internal/entities"
)

const (
	tableBorrows = "borrows"
	colID        = "id"
	colUserID    = "user_id"
	colBookID    = "book_id"
	colIsDone    = "is_done"
)

// Limit describes how many borrows a single user may hold.
type Limit struct {
	Max      int
	OpenOnly bool // count only borrows that have not been returned
}

// Repository handles borrow and return database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertBorrowIfAllowed inserts an open borrow only when the book has no open
// borrow and the user is below the limit. It reports whether a row was inserted.
// A concurrent writer that wins the race surfaces as gorm.ErrDuplicatedKey.
func (r *Repository) InsertBorrowIfAllowed(userID, bookID uint, limit Limit) (bool, error) {
	query, err := buildConditionalBorrowInsert(database.DialectFor(r.db), userID, bookID, limit)
	if err != nil {
		return false, err
	}

	result := r.db.Exec(query)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func buildConditionalBorrowInsert(dialect string, userID, bookID uint, limit Limit) (string, error) {
	builder := goqu.Dialect(dialect)

	openBorrow := builder.
		From(tableBorrows).
		Select(goqu.L("1")).
		Where(goqu.C(colBookID).Eq(bookID), goqu.C(colIsDone).Eq(false))

	userBorrows := builder.
		From(tableBorrows).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C(colUserID).Eq(userID))
	if limit.OpenOnly {
		userBorrows = userBorrows.Where(goqu.C(colIsDone).Eq(false))
	}

	selectStmt := builder.
		Select(goqu.V(userID), goqu.V(bookID), goqu.V(false)).
		Where(
			goqu.L("NOT EXISTS ?", openBorrow),
			goqu.L("? < ?", userBorrows, limit.Max),
		)

	insertStmt := builder.
		Insert(tableBorrows).
		Cols(colUserID, colBookID, colIsDone).
		FromQuery(selectStmt)

	query, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", fmt.Errorf("build borrow insert: %w", err)
	}
	return query, nil
}

// GetOpenBorrowForBook retrieves the borrow currently holding a book.
func (r *Repository) GetOpenBorrowForBook(bookID uint) (*entities.Borrow, error) {
	var borrow entities.Borrow
	err := r.db.Where("book_id = ? AND is_done = ?", bookID, false).
		Order("id DESC").
		First(&borrow).Error
	if err != nil {
		return nil, err
	}
	return &borrow, nil
}

// GetOpenBorrow retrieves the open borrow of a book held by a specific user.
func (r *Repository) GetOpenBorrow(userID, bookID uint) (*entities.Borrow, error) {
	var borrow entities.Borrow
	err := r.db.Where("user_id = ? AND book_id = ? AND is_done = ?", userID, bookID, false).
		Order("id DESC").
		First(&borrow).Error
	if err != nil {
		return nil, err
	}
	return &borrow, nil
}

// CountBorrowsForUser counts the borrows a user holds under the given limit rules.
func (r *Repository) CountBorrowsForUser(userID uint, openOnly bool) (int64, error) {
	var count int64
	query := r.db.Model(&entities.Borrow{}).Where("user_id = ?", userID)
	if openOnly {
		query = query.Where("is_done = ?", false)
	}
	err := query.Count(&count).Error
	return count, err
}

// CloseBorrow marks an open borrow as done. It reports false when the borrow
// was already closed by someone else.
func (r *Repository) CloseBorrow(id uint) (bool, error) {
	result := r.db.Model(&entities.Borrow{}).
		Where("id = ? AND is_done = ?", id, false).
		Update(colIsDone, true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CreateReturn inserts a return record.
func (r *Repository) CreateReturn(ret *entities.Return) error {
	return r.db.Create(ret).Error
}

// GetBorrowsForBook retrieves every borrow of a book in insertion order.
func (r *Repository) GetBorrowsForBook(bookID uint) ([]entities.Borrow, error) {
	borrows := []entities.Borrow{}
	err := r.db.Where("book_id = ?", bookID).Order("id ASC").Find(&borrows).Error
	return borrows, err
}

// GetReturnsForBook retrieves every return of a book in insertion order.
func (r *Repository) GetReturnsForBook(bookID uint) ([]entities.Return, error) {
	returns := []entities.Return{}
	err := r.db.Where("book_id = ?", bookID).Order("id ASC").Find(&returns).Error
	return returns, err
}

// GetBorrowsForUser retrieves a user's borrows in insertion order.
func (r *Repository) GetBorrowsForUser(userID uint, openOnly bool) ([]entities.Borrow, error) {
	borrows := []entities.Borrow{}
	query := r.db.Where("user_id = ?", userID)
	if openOnly {
		query = query.Where("is_done = ?", false)
	}
	err := query.Order("id ASC").Find(&borrows).Error
	return borrows, err
}
