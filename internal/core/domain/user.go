package domain

import (
	"errors"
	"time"
)

const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
	RoleAdmin    = "Admin"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNoUsers            = errors.New("no users found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserHasTasks       = errors.New("user has assigned tasks")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
)

// User models an account that can own tasks and sign in.
type User struct {
	ID           string
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Roles        []string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasAnyRole reports whether the user holds at least one of roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// DefaultRoles is assigned to new users that were created without roles.
func DefaultRoles() []string {
	return []string{RoleEmployee}
}
