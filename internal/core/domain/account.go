package domain

import "time"

// Role is the access level granted to an account.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Status represents the lifecycle state of an account.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// adminTransitions lists the statuses an admin may move an account into.
var adminTransitions = map[Status]struct{}{
	StatusActive:   {},
	StatusInactive: {},
}

// CanAdminSet reports whether an admin may move an account into s.
func (s Status) CanAdminSet() bool {
	_, ok := adminTransitions[s]
	return ok
}

// Account is the only aggregate of the service.
type Account struct {
	ID           string     `json:"id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       Status     `json:"status"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsActive reports whether the account may use protected operations.
func (a *Account) IsActive() bool {
	return a != nil && a.Status == StatusActive
}
