package ports

import (
	"context"

	"github.com/taskdesk/task-manager/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task.
type CreateTaskInput struct {
	UserID string
	Title  string
	Text   string
}

// UpdateTaskInput replaces every mutable field of a task.
// Completed is a pointer so that an omitted flag can be told apart from false.
type UpdateTaskInput struct {
	ID        string
	UserID    string
	Title     string
	Text      string
	Completed *bool
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	ListTasks(ctx context.Context) ([]domain.TaskWithOwner, error)
	GetTask(ctx context.Context, id string) (*domain.TaskWithOwner, error)
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, input UpdateTaskInput) (*domain.Task, error)
	// DeleteTask removes the task and returns it as it was before deletion.
	DeleteTask(ctx context.Context, id string) (*domain.Task, error)
}
