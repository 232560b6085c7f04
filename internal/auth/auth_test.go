package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/library-api/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store, err := NewStore(config.DriverSQLite, sqlDB)
	require.NoError(t, err)

	return NewSessionManager(store, config.Sessions{Lifetime: time.Hour, SecureCookies: false})
}

func setupSessionRouter(sm *SessionManager) *gin.Engine {
	router := gin.New()
	router.Use(sm.SessionLoadSave(), sm.ReaderContext())
	router.POST("/open/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		if err := sm.OpenSession(c.Request, uint(id)); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusCreated)
	})
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, strconv.Itoa(int(GetReaderID(c))))
	})
	router.POST("/close", func(c *gin.Context) {
		_ = sm.CloseSession(c.Request)
		c.Status(http.StatusNoContent)
	})
	return router
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookieName)
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	sm := setupSessionManager(t)
	router := setupSessionRouter(sm)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/open/42", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	t.Run("reader is restored from the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "42", w.Body.String())
	})

	t.Run("no cookie means no reader", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, "0", w.Body.String())
	})

	t.Run("closing expires the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/close", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Negative(t, sessionCookie(t, w).MaxAge)

		req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookie)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "0", w.Body.String())
	})
}

func TestSessionInfo(t *testing.T) {
	sm := setupSessionManager(t)

	var info *SessionInfo
	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.POST("/", func(c *gin.Context) {
		require.Nil(t, sm.Info(c.Request))
		require.NoError(t, sm.OpenSession(c.Request, 7))
		info = sm.Info(c.Request)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	require.NotNil(t, info)
	assert.Equal(t, uint(7), info.ReaderID)
	assert.False(t, info.OpenedAt.IsZero())
}

func TestNewStore_MemoryForPostgres(t *testing.T) {
	store, err := NewStore(config.DriverPostgres, nil)
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestCSRFMiddleware(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	router := gin.New()
	router.Use(CSRFMiddleware(secret, false))
	router.POST("/borrow", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/session", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})

	t.Run("requests without a session are not checked", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/borrow", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("session requests without a token are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/borrow", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"CSRF token invalid or missing","code":"csrf_failed"}`, w.Body.String())
	})

	t.Run("safe methods get a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Body.String())
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(), StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
