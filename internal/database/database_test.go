package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library-api/internal/config"
	"github.com/mrlokans/library-api/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewSQLiteDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	t.Run("creates every table", func(t *testing.T) {
		db := setupTestDB(t)

		for _, table := range []string{"authors", "publishers", "genres", "books", "book_genres", "borrows", "returns", "audit_events"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
		assert.True(t, db.DB.Migrator().HasIndex(&entities.Borrow{}, "idx_borrows_open_book"))
	})

	t.Run("migrate is repeatable", func(t *testing.T) {
		db := setupTestDB(t)
		assert.NoError(t, db.Migrate())
	})

	t.Run("ping", func(t *testing.T) {
		db := setupTestDB(t)
		assert.NoError(t, db.Ping(context.Background()))
		assert.Equal(t, "sqlite3", db.Dialect())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := NewDatabase(config.Database{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("postgres needs a dsn", func(t *testing.T) {
		_, err := NewDatabase(config.Database{Driver: config.DriverPostgres})
		assert.ErrorContains(t, err, "DATABASE_DSN")
	})
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "lib.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", sqliteDSN("lib.db"))
	assert.Equal(t, "file:lib.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", sqliteDSN("file:lib.db?mode=rwc"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Error, parseLogLevel("error"))
	assert.Equal(t, logger.Info, parseLogLevel("info"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}

func TestForeignKeysAreEnforced(t *testing.T) {
	db := setupTestDB(t)

	err := db.DB.Create(&entities.Book{
		Title:       "Orphan",
		ISBN:        "1-2-3-4",
		PublishDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		AuthorID:    42,
	}).Error
	assert.Error(t, err)
}

func TestUniqueNames(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.DB.Create(&entities.Genre{Name: "Drama"}).Error)
	err := db.DB.Create(&entities.Genre{Name: "Drama"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestPage(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero value gets default limit", Page{}, Page{Limit: DefaultLimit}},
		{"limit is capped", Page{Limit: 500, Offset: 3}, Page{Limit: MaxLimit, Offset: 3}},
		{"negative offset", Page{Limit: 5, Offset: -1}, Page{Limit: 5}},
		{"valid page unchanged", Page{Limit: 1, Offset: 2}, Page{Limit: 1, Offset: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPaginate(t *testing.T) {
	db := setupTestDB(t)
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, db.DB.Create(&entities.Genre{Name: name}).Error)
	}

	var genres []entities.Genre
	require.NoError(t, db.DB.Order("id").Scopes(Paginate(Page{Limit: 1, Offset: 1})).Find(&genres).Error)
	require.Len(t, genres, 1)
	assert.Equal(t, "B", genres[0].Name)
}
