package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskdesk/task-manager/internal/core/domain"
)

const (
	taskListKey     = "tasks:list"
	taskListGenKey  = "tasks:list:gen"
	defaultCacheTTL = 5 * time.Second
)

// TaskListCache keeps the enriched task list in Redis for a short TTL.
//
// The list lives under tasks:list:<gen>. Invalidate bumps the generation, so a
// reader that fetched from MongoDB before a write stores its list under a key
// nobody reads any more; that entry just expires.
type TaskListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTaskListCache creates a TaskListCache. A non-positive ttl selects the default.
func NewTaskListCache(client *redis.Client, ttl time.Duration) *TaskListCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &TaskListCache{client: client, ttl: ttl}
}

type cachedTask struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func listKey(gen int64) string {
	return fmt.Sprintf("%s:%d", taskListKey, gen)
}

func (c *TaskListCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, taskListGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("task cache generation: %w", err)
	}
	return gen, nil
}

func (c *TaskListCache) Get(ctx context.Context) ([]domain.TaskWithOwner, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, listKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("task cache get: %w", err)
	}

	var entries []cachedTask
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, gen, false, fmt.Errorf("task cache decode: %w", err)
	}

	tasks := make([]domain.TaskWithOwner, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, domain.TaskWithOwner{
			Task: domain.Task{
				ID:        e.ID,
				UserID:    e.UserID,
				Title:     e.Title,
				Text:      e.Text,
				Completed: e.Completed,
				CreatedAt: e.CreatedAt,
				UpdatedAt: e.UpdatedAt,
			},
			Username: e.Username,
		})
	}
	return tasks, gen, true, nil
}

// Set stores tasks under generation gen, as returned by Get.
func (c *TaskListCache) Set(ctx context.Context, gen int64, tasks []domain.TaskWithOwner) error {
	entries := make([]cachedTask, 0, len(tasks))
	for _, t := range tasks {
		entries = append(entries, cachedTask{
			ID:        t.ID,
			UserID:    t.UserID,
			Username:  t.Username,
			Title:     t.Title,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("task cache encode: %w", err)
	}
	return c.client.Set(ctx, listKey(gen), raw, c.ttl).Err()
}

func (c *TaskListCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, taskListGenKey).Err()
}
