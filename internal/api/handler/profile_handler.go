package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/account-service/internal/core/ports"
)

// ProfileHandler serves the self-service routes of the authenticated account.
type ProfileHandler struct {
	accounts ports.AccountService
}

func NewProfileHandler(accounts ports.AccountService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

// Me returns the caller's profile, read fresh from the store.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=userData}
// @Failure      401  {object}  Envelope
// @Router       /users/profile/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.Profile(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: userData{User: toUserDetail(account)}})
}

// Update changes the caller's full name and/or email.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=userData}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /users/profile/update [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateProfile(c.Request().Context(), p, ports.ProfileChanges{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Profile updated successfully",
		Data:    userData{User: toUserDetail(account)},
	})
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change own password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /users/profile/change-password [put]
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), p, ports.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Password changed successfully"})
}
