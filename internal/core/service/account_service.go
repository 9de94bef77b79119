package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
	"github.com/accounthub/account-service/internal/core/security"
	"github.com/accounthub/account-service/internal/pkg/metrics"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1000000
)

// AccountService implements the admin and self-service account operations.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	cache  ports.AccountCache
	logger zerolog.Logger
}

// NewAccountService wires the service. cache may be nil, in which case
// every read goes to the repository.
func NewAccountService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	cache ports.AccountCache,
	logger zerolog.Logger,
) *AccountService {
	if cache == nil {
		cache = noCache{}
	}
	return &AccountService{repo: repo, hasher: hasher, cache: cache, logger: logger}
}

// ── Admin operations ─────────────────────────────────────────────────────────

func (s *AccountService) List(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	page := in.Page
	if page < 1 {
		page = defaultPage
	}
	if page > maxPage {
		return nil, domain.NewValidationError("Validation failed", fmt.Sprintf("page must be at most %d", maxPage))
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter := ports.AccountFilter{Search: in.Search, Page: page, Limit: limit}
	if in.Status != "" {
		filter.Status = domain.Status(in.Status)
		if !filter.Status.IsValid() {
			return nil, domain.NewValidationError("Invalid status filter", "status must be one of: active, inactive, suspended")
		}
	}
	if in.Role != "" {
		filter.Role = domain.Role(in.Role)
		if !filter.Role.IsValid() {
			return nil, domain.NewValidationError("Invalid role filter", "role must be one of: user, manager, admin")
		}
	}

	accounts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list accounts")
		return nil, storeError("list accounts", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListAccountsResult{
		Accounts: accounts,
		Pagination: ports.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalUsers:  total,
			Limit:       limit,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	}, nil
}

// Get returns a single account. Admin views may be served from the cache.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find account by id", err)
	}
	s.cache.Set(ctx, account)
	return account, nil
}

func (s *AccountService) Activate(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error) {
	return s.transition(ctx, actor, id, domain.StatusActive, "activate")
}

func (s *AccountService) Deactivate(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error) {
	return s.transition(ctx, actor, id, domain.StatusInactive, "deactivate")
}

func (s *AccountService) transition(ctx context.Context, actor *domain.Account, id string, to domain.Status, verb string) (*domain.Account, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find account by id", err)
	}
	if target.ID == actor.ID {
		return nil, domain.NewError(domain.KindForbidden, fmt.Sprintf("You cannot %s your own account", verb))
	}
	if target.Status == to {
		return nil, alreadyInStatus(to)
	}

	// The repository applies the change only while the status still differs,
	// so a concurrent identical transition also ends up as a no-op error.
	updated, err := s.repo.TransitionStatus(ctx, target.ID, to)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, alreadyInStatus(to)
		}
		return nil, storeError("transition account status", err)
	}

	s.cache.Invalidate(ctx, updated.ID)
	metrics.StatusTransitionsTotal.WithLabelValues(string(to)).Inc()
	s.logger.Info().
		Str("account_id", updated.ID).
		Str("actor_id", actor.ID).
		Str("status", string(to)).
		Msg("account status changed")
	return updated, nil
}

func alreadyInStatus(status domain.Status) error {
	return domain.NewValidationError(fmt.Sprintf("User account is already %s", status))
}

// ── Self-service operations ──────────────────────────────────────────────────

// Profile re-reads the principal so the view includes the latest lastLogin.
func (s *AccountService) Profile(ctx context.Context, principal *domain.Account) (*domain.Account, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	account, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, storeError("find account by id", err)
	}
	return account, nil
}

// UpdateProfile replaces the full name and/or email of the principal.
// Empty values count as not provided.
func (s *AccountService) UpdateProfile(ctx context.Context, principal *domain.Account, in ports.ProfileChanges) (*domain.Account, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	if isBlank(in.FullName) && isBlank(in.Email) {
		return nil, domain.NewValidationError("Please provide full name or email to update")
	}

	var (
		changes ports.ProfileChanges
		details []string
	)
	if !isBlank(in.FullName) {
		name, msg := checkFullName(*in.FullName)
		if msg != "" {
			details = append(details, msg)
		}
		changes.FullName = &name
	}
	if !isBlank(in.Email) {
		email := normalizeEmail(*in.Email)
		if msg := checkEmail(email); msg != "" {
			details = append(details, msg)
		}
		changes.Email = &email
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError("Validation failed", details...)
	}

	if changes.Email != nil {
		existing, err := s.repo.FindByEmail(ctx, *changes.Email)
		switch {
		case err == nil && existing.ID != principal.ID:
			return nil, domain.NewError(domain.KindDuplicateEmail, "Email is already in use by another account")
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, storeError("find account by email", err)
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, principal.ID, changes)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, storeError("update profile", err)
	}

	s.cache.Invalidate(ctx, updated.ID)
	s.logger.Info().Str("account_id", updated.ID).Msg("profile updated")
	return updated, nil
}

// ChangePassword requires proof of the current password before storing a new digest.
func (s *AccountService) ChangePassword(ctx context.Context, principal *domain.Account, in ports.ChangePasswordInput) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return domain.NewValidationError("Please provide current password and new password")
	}

	account, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		return storeError("find account by id", err)
	}

	if !s.hasher.Verify(ctx, in.CurrentPassword, account.PasswordHash) {
		if err := ctx.Err(); err != nil {
			return domain.Unexpected("verify password", err)
		}
		return domain.NewError(domain.KindInvalidCredentials, "Current password is incorrect")
	}

	if policy := security.ValidatePassword(in.NewPassword); !policy.OK {
		return domain.NewValidationError("New password does not meet requirements", policy.Violations...)
	}

	if s.hasher.Verify(ctx, in.NewPassword, account.PasswordHash) {
		return domain.NewValidationError("New password must be different from current password")
	}

	digest, err := s.hasher.Hash(ctx, in.NewPassword)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return domain.NewValidationError("New password does not meet requirements", "Password cannot exceed 72 bytes")
		}
		return domain.Unexpected("hash password", err)
	}

	if err := s.repo.UpdatePassword(ctx, account.ID, digest); err != nil {
		return storeError("update password", err)
	}

	s.cache.Invalidate(ctx, account.ID)
	metrics.PasswordChangesTotal.Inc()
	s.logger.Info().Str("account_id", account.ID).Msg("password changed")
	return nil
}

func isBlank(v *string) bool {
	return v == nil || *v == ""
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*domain.Account, bool) { return nil, false }
func (noCache) Set(context.Context, *domain.Account)                {}
func (noCache) Invalidate(context.Context, string)                  {}
