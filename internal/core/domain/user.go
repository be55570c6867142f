package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidUser        = errors.New("invalid user data")
	ErrForbidden          = errors.New("access forbidden")
)

// IsAdminRole reports whether role grants access to the administration API.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// User models an administrator of the portal.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	LastName     string    `json:"last_name"`
	FirstName    string    `json:"first_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
