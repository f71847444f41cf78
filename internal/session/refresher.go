// ABOUTME: Exchanges the stored refresh token for new tokens
// ABOUTME: Concurrent callers share one in-flight refresh via singleflight

package session

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// TokenRefresher performs the remote refresh call.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (domain.AuthResult, error)
}

// Refresher renews the session. It never clears the session on failure;
// that is left to the auth guard.
type Refresher struct {
	session *Manager
	remote  TokenRefresher
	group   singleflight.Group
}

// NewRefresher creates a refresher for session using remote.
func NewRefresher(session *Manager, remote TokenRefresher) *Refresher {
	return &Refresher{session: session, remote: remote}
}

// Refresh exchanges the stored refresh token and stores the result.
func (r *Refresher) Refresh(ctx context.Context) (domain.AuthResult, error) {
	v, err, shared := r.group.Do("refresh", func() (interface{}, error) {
		refreshToken := r.session.RefreshToken()
		if refreshToken == "" {
			return domain.AuthResult{}, domain.ErrNotAuthenticated
		}

		auth, err := r.remote.Refresh(ctx, refreshToken)
		if err != nil {
			return domain.AuthResult{}, err
		}
		if auth.RefreshToken == "" {
			// Some servers only rotate the access token.
			auth.RefreshToken = refreshToken
		}
		if err := r.session.Store(auth); err != nil {
			return domain.AuthResult{}, err
		}
		slog.Debug("Session refreshed")
		return auth, nil
	})
	if err != nil {
		return domain.AuthResult{}, err
	}
	if shared {
		slog.Debug("Joined in-flight session refresh")
	}
	return v.(domain.AuthResult), nil
}

// RenewToken adapts Refresh to the client's unauthorized handler: it returns
// the new access token.
func (r *Refresher) RenewToken(ctx context.Context) (string, error) {
	auth, err := r.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return auth.AccessToken, nil
}
