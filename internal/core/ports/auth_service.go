package ports

import (
	"context"

	"github.com/accounthub/account-service/internal/core/domain"
)

// SignupInput carries the data needed to open an account.
type SignupInput struct {
	FullName string
	Email    string
	Password string
	Role     string // optional; empty means user
}

// LoginInput carries password credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	Token   string
	Account *domain.Account
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
}

// Authenticator turns a bearer token into a live, active principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}
