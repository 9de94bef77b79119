package ports

import (
	"context"

	"github.com/accounthub/account-service/internal/core/domain"
)

// ListAccountsInput carries the raw query parameters of the list endpoint.
type ListAccountsInput struct {
	Page   int
	Limit  int
	Status string
	Role   string
	Search string
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalUsers  int64
	Limit       int
	HasNextPage bool
	HasPrevPage bool
}

// ListAccountsResult is returned by List.
type ListAccountsResult struct {
	Accounts   []*domain.Account
	Pagination Pagination
}

// ChangePasswordInput holds the proof of the current password and its replacement.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// AccountService defines the admin and self-service operations on accounts.
// Every method expects a principal already accepted by the Authenticator.
type AccountService interface {
	List(ctx context.Context, in ListAccountsInput) (*ListAccountsResult, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	Activate(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error)
	Deactivate(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error)

	Profile(ctx context.Context, principal *domain.Account) (*domain.Account, error)
	UpdateProfile(ctx context.Context, principal *domain.Account, in ProfileChanges) (*domain.Account, error)
	ChangePassword(ctx context.Context, principal *domain.Account, in ChangePasswordInput) error
}
