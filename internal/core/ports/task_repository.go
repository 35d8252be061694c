package ports

import (
	"context"

	"github.com/taskdesk/task-manager/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
// Lookups return domain.ErrTaskNotFound when nothing matches.
type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	FindByTitle(ctx context.Context, title string) (*domain.Task, error)
	// ExistsForUser reports whether any task references userID.
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	// Create inserts t and sets t.ID.
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

// TaskListCache stores the enriched task list between writes.
//
// Entries are keyed by generation. Get reports the current generation and
// Set stores under the generation the caller read, so a list computed before
// an Invalidate is never served after it.
type TaskListCache interface {
	// Get returns the cached list, the current generation and whether the
	// list was present.
	Get(ctx context.Context) (tasks []domain.TaskWithOwner, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, tasks []domain.TaskWithOwner) error
	// Invalidate moves to a new generation.
	Invalidate(ctx context.Context) error
}
