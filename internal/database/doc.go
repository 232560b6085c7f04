// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL) and migrations
//	├── query.go         # Pagination and book sort options shared by repositories
//	├── authors/         # Author lookup by name and author book lists
//	├── books/           # Book creation, sorted listing and relations
//	├── genres/          # Genre catalog
//	├── publishers/      # Publisher catalog
//	├── loans/           # Borrow and return rows, open-borrow checks
//	└── audit/           # Audit event storage and retention
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type over a *gorm.DB. Repositories
// accept a transaction handle as well, which is how library.Service keeps the
// borrow rules atomic:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	err = db.DB.Transaction(func(tx *gorm.DB) error {
//		borrows := loans.NewRepository(tx)
//		inserted, err := borrows.InsertBorrowIfAllowed(userID, bookID, limit)
//		...
//	})
//
// Repositories return gorm errors unchanged. Mapping them to not-found and
// conflict errors is the library package's job.
//
// # Schema
//
// Tables are created by gorm's AutoMigrate. The partial unique index on
// open borrows is added by hand in Migrate because struct tags cannot
// express it.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/series/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the model in Migrate
package database
