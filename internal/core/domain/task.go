package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrNoTasks        = errors.New("no tasks found")
	ErrDuplicateTitle = errors.New("task with similar title found")
)

// Task is a to-do item owned by a user.
type Task struct {
	ID        string
	UserID    string
	Title     string
	Text      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskWithOwner is a task enriched with the username of its owner.
// Username is empty when the owner no longer exists.
type TaskWithOwner struct {
	Task
	Username string
}

// SortTasks orders tasks with open ones first, then completed ones.
// Within each group tasks keep creation order.
func SortTasks(tasks []TaskWithOwner) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
