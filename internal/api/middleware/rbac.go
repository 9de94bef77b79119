package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/service"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, _ := Principal(c)
			if err := service.RequireRole(principal, allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
