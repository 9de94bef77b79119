package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
	"github.com/accounthub/account-service/internal/core/security"
	"github.com/accounthub/account-service/internal/pkg/metrics"
)

// AuthOptions holds the startup settings of AuthService.
type AuthOptions struct {
	// AllowSignupRole lets signup requests pick a role other than user.
	AllowSignupRole bool
}

// AuthService implements signup and login.
type AuthService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	opts   AuthOptions
	logger zerolog.Logger
	now    func() time.Time

	dummyMu     sync.Mutex
	dummyDigest string
}

func NewAuthService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	opts AuthOptions,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Signup validates every field, stores a new active account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	res, err := s.signup(ctx, in)
	recordAttempt("signup", err)
	return res, err
}

func (s *AuthService) signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	// 1. Field rules, all reported together.
	var details []string
	fullName, msg := checkFullName(in.FullName)
	if msg != "" {
		details = append(details, msg)
	}
	email := normalizeEmail(in.Email)
	if msg := checkEmail(email); msg != "" {
		details = append(details, msg)
	}
	if policy := security.ValidatePassword(in.Password); !policy.OK {
		details = append(details, policy.Violations...)
	}
	role, msg := s.signupRole(in.Role)
	if msg != "" {
		details = append(details, msg)
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError("Validation failed", details...)
	}

	// 2. Uniqueness pre-check. The unique index still catches a concurrent signup.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.NewError(domain.KindDuplicateEmail, "User with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, storeError("find account by email", err)
	}

	// 3. Hash and persist.
	digest, err := s.hashPassword(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		FullName:     fullName,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.NewError(domain.KindDuplicateEmail, "User with this email already exists")
		}
		s.logger.Error().Err(err).Msg("failed to create account")
		return nil, storeError("create account", err)
	}

	// 4. Token for the new account.
	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, domain.Unexpected("issue token", err)
	}

	s.logger.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Msg("account created")
	return &ports.AuthResult{Token: token, Account: created}, nil
}

func (s *AuthService) signupRole(raw string) (domain.Role, string) {
	if raw == "" {
		return domain.RoleUser, ""
	}
	role := domain.Role(raw)
	if !role.IsValid() {
		return "", "Role must be one of: user, manager, admin"
	}
	if role != domain.RoleUser && !s.opts.AllowSignupRole {
		return "", "Role cannot be chosen at signup"
	}
	return role, ""
}

// Login checks password credentials. An unknown email and a wrong password
// produce the same error.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	res, err := s.login(ctx, in)
	recordAttempt("login", err)
	return res, err
}

func (s *AuthService) login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.NewValidationError("Please provide email and password")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same hashing time as a real comparison.
			s.hasher.Verify(ctx, in.Password, s.dummyHash())
			if err := ctx.Err(); err != nil {
				return nil, domain.Unexpected("verify password", err)
			}
			return nil, domain.ErrInvalidCredentials
		}
		return nil, storeError("find account by email", err)
	}

	if !s.hasher.Verify(ctx, in.Password, account.PasswordHash) {
		if err := ctx.Err(); err != nil {
			return nil, domain.Unexpected("verify password", err)
		}
		return nil, domain.ErrInvalidCredentials
	}

	if !account.IsActive() {
		return nil, domain.NewAccountNotActiveError(account.Status)
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, account.ID, now); err != nil {
		return nil, storeError("record last login", err)
	}
	account.LastLogin = &now

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, domain.Unexpected("issue token", err)
	}

	s.logger.Info().Str("account_id", account.ID).Msg("login succeeded")
	return &ports.AuthResult{Token: token, Account: account}, nil
}

func (s *AuthService) hashPassword(ctx context.Context, password string) (string, error) {
	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return "", domain.NewValidationError("Validation failed", "Password cannot exceed 72 bytes")
		}
		return "", domain.Unexpected("hash password", err)
	}
	return digest, nil
}

// dummyHash returns the digest compared against for unknown emails. It is
// built on a background context so that a cancelled request never leaves it
// empty, and a failed build is retried on the next call.
func (s *AuthService) dummyHash() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyDigest != "" {
		return s.dummyDigest
	}
	digest, err := s.hasher.Hash(context.Background(), "dummy-password-for-timing")
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to prepare timing digest")
		return ""
	}
	s.dummyDigest = digest
	return digest
}

func recordAttempt(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

// storeError keeps domain errors from the repository and wraps anything else.
func storeError(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Unexpected(op, err)
}
