package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mujeebkhan77/digital-Library/internal/config"
)

// Session data keys
const (
	SessionKeyUserID = "user_id"

	// Transient pointer to the pending provider checkout session between
	// create and verify. Advisory only: verification trusts provider
	// metadata, never this echo.
	SessionKeyCheckoutID     = "checkout_session_id"
	SessionKeyCheckoutBookID = "checkout_book_id"
)

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2 // Half of lifetime for inactivity

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	// Lax rather than Strict: the Stripe success redirect is a top-level
	// cross-site navigation and the session cookie must accompany it for
	// verification to see the logged-in principal.
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession creates a new session for a user after successful
// authentication.
func (sm *SessionManager) CreateSession(r *http.Request, userID uint) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	// Store user ID as int to match GetInt() retrieval
	sm.Put(r.Context(), SessionKeyUserID, int(userID))
	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID retrieves the user ID from the session.
// Returns 0 if not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// IsAuthenticated returns true if the request has a valid session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserID(r) != 0
}

// RememberCheckout stores the pending checkout session pointer.
func (sm *SessionManager) RememberCheckout(r *http.Request, sessionID string, bookID uint) {
	sm.Put(r.Context(), SessionKeyCheckoutID, sessionID)
	sm.Put(r.Context(), SessionKeyCheckoutBookID, int(bookID))
}

// PendingCheckout returns the remembered checkout session id, if any.
func (sm *SessionManager) PendingCheckout(r *http.Request) (string, uint) {
	id := sm.GetString(r.Context(), SessionKeyCheckoutID)
	bookID := uint(sm.GetInt(r.Context(), SessionKeyCheckoutBookID))
	return id, bookID
}

// ClearCheckout drops the pending checkout pointer after resolution.
func (sm *SessionManager) ClearCheckout(r *http.Request) {
	sm.Remove(r.Context(), SessionKeyCheckoutID)
	sm.Remove(r.Context(), SessionKeyCheckoutBookID)
}
