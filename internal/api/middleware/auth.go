package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

const principalKey = "principal"

// Auth resolves the bearer token through guard and stores the resulting
// account for the handlers. Every rejection is returned as a domain error so
// the HTTP error handler renders it.
func Auth(guard ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := guard.Authenticate(c.Request().Context(), bearerToken(c))
			if err != nil {
				return err
			}
			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header,
// or "" when the header is absent or has another scheme.
func bearerToken(c echo.Context) string {
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Principal returns the account stored by Auth.
func Principal(c echo.Context) (*domain.Account, bool) {
	p, ok := c.Get(principalKey).(*domain.Account)
	return p, ok && p != nil
}

// SetPrincipal stores p as the authenticated account. Used by Auth and by tests.
func SetPrincipal(c echo.Context, p *domain.Account) {
	c.Set(principalKey, p)
}
