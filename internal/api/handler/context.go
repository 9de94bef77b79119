package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/accounthub/account-service/internal/api/middleware"
	"github.com/accounthub/account-service/internal/core/domain"
)

// principal returns the account accepted by the Auth middleware. A missing
// principal means the route was registered without Auth.
func principal(c echo.Context) (*domain.Account, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// bindAndValidate decodes the request into req and runs the struct rules.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	return c.Validate(req)
}
