package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library-api/internal/config"
	"github.com/mrlokans/library-api/internal/entities"
)

// openBorrowIndexSQL makes the store reject a second open borrow for a book.
// "NOT is_done" is valid on both SQLite (0/1) and PostgreSQL (boolean).
const openBorrowIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_borrows_open_book ON borrows (book_id) WHERE NOT is_done`

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured store and brings the schema up to date.
func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db}
	if err := database.Migrate(); err != nil {
		return nil, err
	}

	log.Printf("Database initialized successfully (%s)", describe(cfg))

	return database, nil
}

// NewSQLiteDatabase is a shortcut for a SQLite file at path, used by tests and tools.
func NewSQLiteDatabase(path string) (*Database, error) {
	return NewDatabase(config.Database{Driver: config.DriverSQLite, Path: path, LogLevel: "silent"})
}

// Migrate creates or updates every table and the indexes gorm tags cannot express.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&entities.Author{},
		&entities.Publisher{},
		&entities.Genre{},
		&entities.Book{},
		&entities.Borrow{},
		&entities.Return{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := d.DB.Exec(openBorrowIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create open borrow index: %w", err)
	}
	return nil
}

// Dialect returns the goqu dialect name matching the active driver.
func (d *Database) Dialect() string {
	return DialectFor(d.DB)
}

// Ping checks connectivity of the underlying connection pool.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DialectFor maps a gorm handle to the goqu dialect used for hand-built statements.
func DialectFor(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN enables foreign keys on every connection. Transactions take the
// write lock up front so concurrent writers queue on the busy timeout.
func sqliteDSN(path string) string {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func describe(cfg config.Database) string {
	if cfg.Driver == config.DriverPostgres {
		return "postgres"
	}
	return "sqlite at " + cfg.Path
}
