// Package auth provides reader sessions and the browser-facing protections
// that come with them.
//
// Sessions are optional. When enabled, POST /session binds a reader ID to a
// cookie and borrow/return requests may omit user_id. Requests that carry the
// session cookie must also pass CSRF validation on unsafe methods; requests
// without the cookie are unaffected.
//
// # Configuration
//
//	SESSIONS_ENABLED=true          # Off by default
//	SESSION_LIFETIME=24h           # Absolute lifetime; idle timeout is half
//	SESSION_SECURE_COOKIES=true    # HTTPS-only cookies
//	CSRF_SECRET=<hex-32-bytes>     # CSRF is off when empty
//
// # Usage
//
//	sm := auth.NewSessionManager(store, cfg.Sessions)
//	router.Use(sm.SessionLoadSave(), sm.ReaderContext())
//	readerID := auth.GetReaderID(c) // 0 without a session
package auth
