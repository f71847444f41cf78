// ABOUTME: Auth guard for protected screens and commands
// ABOUTME: Local check only; a reported 401 clears the session on the next check

package guard

import (
	"log/slog"
	"sync/atomic"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// RouteLogin is where unauthenticated users are sent.
const RouteLogin = "login"

// Session is what the guard reads and clears.
type Session interface {
	IsAuthenticated() bool
	StoredUser() *domain.User
	Logout()
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed  bool
	Redirect string
	User     *domain.User
}

// Guard decides whether protected content may be shown.
type Guard struct {
	session      Session
	unauthorized atomic.Bool
}

// New creates a guard over session.
func New(session Session) *Guard {
	return &Guard{session: session}
}

// Check never performs network calls.
func (g *Guard) Check() Decision {
	if g.unauthorized.Swap(false) {
		slog.Info("Session rejected by the API, logging out")
		g.session.Logout()
	}
	if !g.session.IsAuthenticated() {
		return Decision{Allowed: false, Redirect: RouteLogin}
	}
	return Decision{Allowed: true, User: g.session.StoredUser()}
}

// ReportUnauthorized records that the API rejected the stored token.
func (g *Guard) ReportUnauthorized() {
	g.unauthorized.Store(true)
}

// Observe reports err if it means the session is no longer valid and returns err.
func (g *Guard) Observe(err error) error {
	if err != nil && domain.ReauthRequired(err) {
		g.ReportUnauthorized()
	}
	return err
}
