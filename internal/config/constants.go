package config

const (
	// DefaultDatabasePath is the default path for the SQLite library database
	DefaultDatabasePath = "./library.db"

	// DefaultAPIPrefix is the root every library endpoint is mounted under
	DefaultAPIPrefix = "/api"

	// DefaultMaxBorrowsPerUser is how many borrow rows a user may accumulate
	DefaultMaxBorrowsPerUser = 3
)
