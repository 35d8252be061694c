package ports

import (
	"context"

	"github.com/taskdesk/task-manager/internal/core/domain"
)

// CreateUserInput carries the signup payload.
type CreateUserInput struct {
	Username string
	FullName string
	Email    string
	Password string
	Roles    []string
}

// UpdateUserInput overwrites a user. FullName, Email and Password are
// optional: empty values leave the stored ones untouched.
type UpdateUserInput struct {
	ID       string
	Username string
	FullName string
	Email    string
	Password string
	Roles    []string
	Active   *bool
}

// UserService defines use-case operations for users.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	// DeleteUser removes the user and returns it as it was before deletion.
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
}
