package handler

import "time"

// Envelope is the body of every response, successful or not.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// --- Requests ---

type signupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=user manager admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type listUsersQuery struct {
	Page   int    `query:"page"   validate:"omitempty,min=1,max=1000000"`
	Limit  int    `query:"limit"  validate:"omitempty,min=1"`
	Status string `query:"status" validate:"omitempty,oneof=active inactive suspended"`
	Role   string `query:"role"   validate:"omitempty,oneof=user manager admin"`
	Search string `query:"search" validate:"max=100"`
}

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}

// --- Responses ---
// Separate from domain.Account so the JSON contract never carries the digest.

type userResponse struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type authData struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userData struct {
	User userResponse `json:"user"`
}

type paginationResponse struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalUsers  int64 `json:"totalUsers"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type listUsersData struct {
	Users      []userResponse     `json:"users"`
	Pagination paginationResponse `json:"pagination"`
}
