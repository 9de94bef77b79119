package service

import (
	"slices"

	"github.com/accounthub/account-service/internal/core/domain"
)

// RequireRole allows the principal when its role is one of allowed.
func RequireRole(principal *domain.Account, allowed ...domain.Role) error {
	if principal == nil || !slices.Contains(allowed, principal.Role) {
		return domain.ErrForbidden
	}
	return nil
}
