// ABOUTME: Authentication repository over the HTTP datasource
// ABOUTME: Errors from the client and mapper propagate unchanged

package repository

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/mapper"
)

// AuthDataSource is the subset of the API client the auth repository needs.
type AuthDataSource interface {
	Login(ctx context.Context, creds domain.Credentials) (json.RawMessage, error)
	Refresh(ctx context.Context, refreshToken string) (json.RawMessage, error)
	Profile(ctx context.Context) (json.RawMessage, error)
}

// AuthRepository implements domain.AuthRepository.
type AuthRepository struct {
	remote AuthDataSource
}

var _ domain.AuthRepository = (*AuthRepository)(nil)

// NewAuthRepository creates an auth repository over remote.
func NewAuthRepository(remote AuthDataSource) *AuthRepository {
	return &AuthRepository{remote: remote}
}

// Login exchanges credentials for tokens.
func (r *AuthRepository) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	raw, err := r.remote.Login(ctx, creds)
	if err != nil {
		return domain.AuthResult{}, err
	}
	return authResult("login", raw)
}

// Refresh exchanges a refresh token for new tokens.
func (r *AuthRepository) Refresh(ctx context.Context, refreshToken string) (domain.AuthResult, error) {
	raw, err := r.remote.Refresh(ctx, refreshToken)
	if err != nil {
		return domain.AuthResult{}, err
	}
	return authResult("refresh", raw)
}

// Profile loads the logged-in user.
func (r *AuthRepository) Profile(ctx context.Context) (domain.User, error) {
	raw, err := r.remote.Profile(ctx)
	if err != nil {
		return domain.User{}, err
	}
	body := gjson.ParseBytes(raw)
	if status, message := meta(body, ""); !status {
		return domain.User{}, rejected("profile", message)
	}
	for _, path := range []string{"data", "user"} {
		if u := body.Get(path); u.IsObject() {
			return mapper.UserToDomain(u)
		}
	}
	return mapper.UserToDomain(body)
}

func authResult(op string, raw json.RawMessage) (domain.AuthResult, error) {
	body := gjson.ParseBytes(raw)
	if status, message := meta(body, ""); !status {
		return domain.AuthResult{}, rejected(op, message)
	}
	return mapper.AuthResponseToDomain(body)
}
