package auth

import (
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/library-api/internal/config"
)

// Session data keys
const (
	SessionKeyReaderID = "reader_id"
	SessionKeyOpenedAt = "opened_at"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "library_session"

func init() {
	gob.Register(time.Time{})
}

// NewSQLiteStore prepares the sessions table in the library database and
// returns a store backed by it.
func NewSQLiteStore(sqlDB *sql.DB) (scs.Store, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	return sqlite3store.New(sqlDB), nil
}

// NewStore picks the session store for the database driver. SQLite keeps
// sessions next to the catalog; other drivers fall back to process memory.
func NewStore(driver config.DatabaseDriver, sqlDB *sql.DB) (scs.Store, error) {
	if driver == config.DriverSQLite || driver == "" {
		return NewSQLiteStore(sqlDB)
	}
	return memstore.New(), nil
}

// SessionManager wraps scs.SessionManager with reader-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager over store.
func NewSessionManager(store scs.Store, cfg config.Sessions) *SessionManager {
	sm := scs.New()
	sm.Store = store

	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime / 2

	sm.Cookie.Name = SessionCookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}
}

// OpenSession binds readerID to the request's session under a fresh token.
func (sm *SessionManager) OpenSession(r *http.Request, readerID uint) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyReaderID, int(readerID))
	sm.Put(r.Context(), SessionKeyOpenedAt, time.Now().UTC())
	return nil
}

// CloseSession removes all session data and invalidates the token.
func (sm *SessionManager) CloseSession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// ReaderID returns the reader bound to the session, or 0.
func (sm *SessionManager) ReaderID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyReaderID))
}

// SessionInfo describes an open reader session.
type SessionInfo struct {
	ReaderID uint      `json:"reader_id"`
	OpenedAt time.Time `json:"opened_at"`
}

// Info returns the current session, or nil when no reader is bound.
func (sm *SessionManager) Info(r *http.Request) *SessionInfo {
	readerID := sm.ReaderID(r)
	if readerID == 0 {
		return nil
	}

	openedAt, _ := sm.Get(r.Context(), SessionKeyOpenedAt).(time.Time)
	return &SessionInfo{ReaderID: readerID, OpenedAt: openedAt}
}
