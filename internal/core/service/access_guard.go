package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
	"github.com/accounthub/account-service/internal/pkg/metrics"
)

// AccessGuard resolves a bearer token into a live, active account.
// It always reads the account from the repository so that a deactivation
// takes effect on the next request.
type AccessGuard struct {
	tokens ports.TokenIssuer
	repo   ports.AccountRepository
	logger zerolog.Logger
}

func NewAccessGuard(tokens ports.TokenIssuer, repo ports.AccountRepository, logger zerolog.Logger) *AccessGuard {
	return &AccessGuard{tokens: tokens, repo: repo, logger: logger}
}

func (g *AccessGuard) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, g.reject("missing_token", domain.ErrUnauthenticated)
	}

	accountID, err := g.tokens.Verify(token)
	if err != nil {
		return nil, g.reject("invalid_token",
			domain.NewError(domain.KindUnauthenticated, "Invalid or expired token. Please login again"))
	}

	account, err := g.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, g.reject("unknown_account",
				domain.NewError(domain.KindUnauthenticated, "User no longer exists"))
		}
		g.logger.Error().Err(err).Str("account_id", accountID).Msg("guard lookup failed")
		return nil, g.reject("store_error", storeError("find account by id", err))
	}

	if !account.IsActive() {
		g.logger.Debug().Str("account_id", account.ID).Str("status", string(account.Status)).Msg("blocked non-active account")
		return nil, g.reject("not_active", domain.NewAccountNotActiveError(account.Status))
	}

	return account, nil
}

func (g *AccessGuard) reject(reason string, err error) error {
	metrics.GuardRejectionsTotal.WithLabelValues(reason).Inc()
	return err
}
