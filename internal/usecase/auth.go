// ABOUTME: Authentication use cases: login, logout, profile and session refresh
// ABOUTME: Login persists the session only after the remote call succeeds

package usecase

import (
	"context"
	"log/slog"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// SessionStore is the part of the session manager the auth use cases need.
type SessionStore interface {
	Replace(auth domain.AuthResult) error
	Logout()
}

// SessionRefresher renews the stored session.
type SessionRefresher interface {
	Refresh(ctx context.Context) (domain.AuthResult, error)
}

// Login authenticates and stores the session.
type Login struct {
	repo    domain.AuthRepository
	session SessionStore
}

func NewLogin(repo domain.AuthRepository, session SessionStore) *Login {
	return &Login{repo: repo, session: session}
}

// Execute returns the remote error unchanged; nothing is stored on failure.
func (uc *Login) Execute(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	auth, err := uc.repo.Login(ctx, creds)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if err := uc.session.Replace(auth); err != nil {
		return domain.AuthResult{}, err
	}
	slog.Info("Logged in", "email", creds.Email)
	return auth, nil
}

// Logout discards the local session. There is no server-side logout.
type Logout struct {
	session SessionStore
}

func NewLogout(session SessionStore) *Logout {
	return &Logout{session: session}
}

func (uc *Logout) Execute() {
	uc.session.Logout()
}

// GetProfile loads the logged-in user from the API.
type GetProfile struct {
	repo domain.AuthRepository
}

func NewGetProfile(repo domain.AuthRepository) *GetProfile {
	return &GetProfile{repo: repo}
}

func (uc *GetProfile) Execute(ctx context.Context) (domain.User, error) {
	return uc.repo.Profile(ctx)
}

// RefreshSession exchanges the stored refresh token for new tokens.
type RefreshSession struct {
	refresher SessionRefresher
}

func NewRefreshSession(refresher SessionRefresher) *RefreshSession {
	return &RefreshSession{refresher: refresher}
}

func (uc *RefreshSession) Execute(ctx context.Context) (domain.AuthResult, error) {
	return uc.refresher.Refresh(ctx)
}
