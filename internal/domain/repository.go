// ABOUTME: Repository ports the use cases depend on
// ABOUTME: Implemented in internal/repository, replaced by fakes in tests

package domain

import "context"

// ProductRepository is the catalog boundary. List never returns a Go error;
// failures are reported through the envelope so they can be shown inline.
// Mutations return an error so the caller's flow is interrupted.
type ProductRepository interface {
	List(ctx context.Context, page, pageSize int) Result[ProductPage]
	Get(ctx context.Context, id string) (Result[Product], error)
	Create(ctx context.Context, input ProductInput) (Result[Product], error)
	Update(ctx context.Context, id string, input ProductInput) (Result[Product], error)
	Delete(ctx context.Context, id string) (Message, error)
}

// AuthRepository is the authentication boundary.
type AuthRepository interface {
	Login(ctx context.Context, creds Credentials) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (AuthResult, error)
	Profile(ctx context.Context) (User, error)
}
