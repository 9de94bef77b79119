package ports

import (
	"context"
	"time"

	"github.com/accounthub/account-service/internal/core/domain"
)

// AccountFilter carries the query parameters for listing accounts.
type AccountFilter struct {
	Status domain.Status // optional
	Role   domain.Role   // optional
	Search string        // optional: case-insensitive match on full name or email
	Page   int           // 1-based
	Limit  int
}

// ProfileChanges lists the self-service fields being replaced. Nil means unchanged.
type ProfileChanges struct {
	FullName *string
	Email    *string
}

// AccountRepository defines persistence operations for accounts.
//
// Implementations normalize their own failures: a missing or malformed id is
// domain.ErrNotFound, a unique-email violation is domain.ErrDuplicateEmail and
// anything else is a domain.KindUnexpected error.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, int64, error)
	UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// TransitionStatus sets the status only when it differs from to. When the
	// account already has that status it returns an error of kind Validation.
	TransitionStatus(ctx context.Context, id string, to domain.Status) (*domain.Account, error)
}

// AccountCache holds short-lived copies of accounts for read-only views.
// It is never consulted for authentication decisions.
type AccountCache interface {
	Get(ctx context.Context, id string) (*domain.Account, bool)
	Set(ctx context.Context, account *domain.Account)
	Invalidate(ctx context.Context, id string)
}
