// ABOUTME: Session manager holding access/refresh tokens and the cached user
// ABOUTME: One instance per process over an injected Storage backend

package session

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// Storage keys
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// refreshWindow is how close to expiry a token must be before NeedsRefresh reports true.
const refreshWindow = 5 * time.Minute

// Manager is the client-side session. It assumes a single writer: the command
// or UI goroutine that owns it.
type Manager struct {
	store Storage
	now   func() time.Time
}

// NewManager creates a session manager over store.
func NewManager(store Storage) *Manager {
	return &Manager{store: store, now: time.Now}
}

// IsAuthenticated reports whether an access token is stored.
func (m *Manager) IsAuthenticated() bool {
	token, ok := m.store.Get(KeyAccessToken)
	return ok && token != ""
}

// AccessToken returns the stored bearer token, or "".
func (m *Manager) AccessToken() string {
	token, _ := m.store.Get(KeyAccessToken)
	return token
}

// RefreshToken returns the stored refresh token, or "".
func (m *Manager) RefreshToken() string {
	token, _ := m.store.Get(KeyRefreshToken)
	return token
}

// Store persists a renewed authentication in one write.
// The cached user is only replaced when the response carried one.
func (m *Manager) Store(auth domain.AuthResult) error {
	return m.write(auth, false)
}

// Replace persists a new login in one write. A response without a user
// clears the cached user so a previous account is never shown.
func (m *Manager) Replace(auth domain.AuthResult) error {
	return m.write(auth, true)
}

func (m *Manager) write(auth domain.AuthResult, replaceUser bool) error {
	values := map[string]string{
		KeyAccessToken:  auth.AccessToken,
		KeyRefreshToken: auth.RefreshToken,
	}
	switch {
	case auth.User != nil:
		data, err := json.Marshal(auth.User)
		if err != nil {
			return err
		}
		values[KeyUser] = string(data)
	case replaceUser:
		values[KeyUser] = ""
	}
	return m.store.Set(values)
}

// Logout removes the tokens and cached user. It is idempotent and never fails.
func (m *Manager) Logout() {
	if err := m.store.Delete(KeyAccessToken, KeyRefreshToken, KeyUser); err != nil {
		slog.Warn("Failed to clear session storage", "error", err)
	}
}

// StoredUser returns the cached user, or nil when none is stored or it cannot be parsed.
func (m *Manager) StoredUser() *domain.User {
	raw, ok := m.store.Get(KeyUser)
	if !ok || raw == "" {
		return nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Warn("Ignoring malformed cached user", "error", err)
		return nil
	}
	return &user
}

// Expiry returns the access token's exp claim when the token is a JWT.
// The signature is not verified; the value is only used for display and refresh timing.
func (m *Manager) Expiry() (time.Time, bool) {
	token := m.AccessToken()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// NeedsRefresh reports whether the access token expires within five minutes.
// Opaque tokens without an exp claim never report true.
func (m *Manager) NeedsRefresh() bool {
	exp, ok := m.Expiry()
	if !ok {
		return false
	}
	return exp.Sub(m.now()) <= refreshWindow
}
