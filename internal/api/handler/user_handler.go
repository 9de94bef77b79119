package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
)

// UserHandler serves the admin-only account routes.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// List returns a page of accounts.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Param        status  query     string  false  "Filter by status"  Enums(active, inactive, suspended)
// @Param        role    query     string  false  "Filter by role"    Enums(user, manager, admin)
// @Param        search  query     string  false  "Case-insensitive match on full name or email"
// @Success      200     {object}  Envelope{data=listUsersData}
// @Failure      400     {object}  Envelope
// @Failure      401     {object}  Envelope
// @Failure      403     {object}  Envelope
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.accounts.List(c.Request().Context(), ports.ListAccountsInput{
		Page:   q.Page,
		Limit:  q.Limit,
		Status: q.Status,
		Role:   q.Role,
		Search: q.Search,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Data: toListResponse(res)})
}

// Get returns a single account.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  Envelope{data=userData}
// @Failure      404  {object}  Envelope
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	account, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: userData{User: toUserDetail(account)}})
}

// Activate sets an account's status to active.
//
// @Summary      Activate user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  Envelope{data=userData}
// @Failure      400  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /users/{id}/activate [put]
func (h *UserHandler) Activate(c echo.Context) error {
	return h.transition(c, h.accounts.Activate, "User account activated successfully")
}

// Deactivate sets an account's status to inactive.
//
// @Summary      Deactivate user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  Envelope{data=userData}
// @Failure      400  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /users/{id}/deactivate [put]
func (h *UserHandler) Deactivate(c echo.Context) error {
	return h.transition(c, h.accounts.Deactivate, "User account deactivated successfully")
}

type transitionFunc func(ctx context.Context, actor *domain.Account, id string) (*domain.Account, error)

func (h *UserHandler) transition(c echo.Context, fn transitionFunc, message string) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	account, err := fn(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    userData{User: toUserSummary(account)},
	})
}
