package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskdesk/task-manager/internal/api/metrics"
	"github.com/taskdesk/task-manager/internal/core/domain"
	"github.com/taskdesk/task-manager/internal/core/ports"
)

type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	cache  ports.TaskListCache
	logger zerolog.Logger
	now    func() time.Time
}

// NewTaskService wires a TaskService. cache may be nil, in which case every
// list request goes to the repositories.
func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, cache ports.TaskListCache, logger zerolog.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListTasks returns every task, open ones first, each enriched with its
// owner's username.
func (s *TaskService) ListTasks(ctx context.Context) ([]domain.TaskWithOwner, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		cached, g, ok, err := s.cache.Get(ctx)
		gen, cacheable = g, err == nil
		switch {
		case err != nil:
			metrics.TaskListCacheTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("task list cache read failed")
		case ok && len(cached) > 0:
			metrics.TaskListCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.TaskListCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil, domain.ErrNoTasks
	}

	out, err := s.withOwners(ctx, tasks)
	if err != nil {
		return nil, err
	}
	domain.SortTasks(out)

	if cacheable {
		if err := s.cache.Set(ctx, gen, out); err != nil {
			s.logger.Warn().Err(err).Msg("task list cache write failed")
		}
	}
	return out, nil
}

// GetTask returns a single task enriched with its owner's username.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.TaskWithOwner, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.withOwners(ctx, []domain.Task{*task})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// CreateTask validates and stores a new, open task.
func (s *TaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if input.UserID == "" || input.Title == "" || input.Text == "" {
		return nil, domain.ErrInvalidInput
	}

	if err := s.ensureTitleFree(ctx, input.Title, ""); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	now := s.now()
	task := &domain.Task{
		UserID:    input.UserID,
		Title:     input.Title,
		Text:      input.Text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("title", input.Title).Msg("failed to create task")
		return nil, err
	}

	s.invalidate(ctx)
	metrics.TasksCreatedTotal.Inc()
	s.logger.Info().Str("task_id", task.ID).Str("user_id", task.UserID).Msg("task created")
	return task, nil
}

// UpdateTask overwrites owner, title, text and completed flag of an existing
// task. The id and creation time never change.
func (s *TaskService) UpdateTask(ctx context.Context, input ports.UpdateTaskInput) (*domain.Task, error) {
	if input.ID == "" || input.UserID == "" || input.Title == "" || input.Text == "" || input.Completed == nil {
		return nil, domain.ErrInvalidInput
	}

	task, err := s.tasks.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(ctx, input.Title, task.ID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	task.UserID = input.UserID
	task.Title = input.Title
	task.Text = input.Text
	task.Completed = *input.Completed
	task.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("task_id", task.ID).Msg("failed to update task")
		return nil, err
	}

	s.invalidate(ctx)
	metrics.TasksUpdatedTotal.WithLabelValues(strconv.FormatBool(task.Completed)).Inc()
	s.logger.Info().Str("task_id", task.ID).Bool("completed", task.Completed).Msg("task updated")
	return task, nil
}

// DeleteTask removes a task by id.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		s.logger.Error().Err(err).Str("task_id", task.ID).Msg("failed to delete task")
		return nil, err
	}

	s.invalidate(ctx)
	metrics.TasksDeletedTotal.Inc()
	s.logger.Info().Str("task_id", task.ID).Msg("task deleted")
	return task, nil
}

// ensureTitleFree returns domain.ErrDuplicateTitle when another task than
// selfID already uses title.
func (s *TaskService) ensureTitleFree(ctx context.Context, title, selfID string) error {
	existing, err := s.tasks.FindByTitle(ctx, title)
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check title: %w", err)
	case existing.ID != selfID:
		return domain.ErrDuplicateTitle
	}
	return nil
}

// withOwners resolves all owners with one batched lookup.
func (s *TaskService) withOwners(ctx context.Context, tasks []domain.Task) ([]domain.TaskWithOwner, error) {
	seen := make(map[string]struct{}, len(tasks))
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.UserID]; ok || t.UserID == "" {
			continue
		}
		seen[t.UserID] = struct{}{}
		ids = append(ids, t.UserID)
	}

	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve task owners: %w", err)
	}
	usernames := make(map[string]string, len(owners))
	for _, u := range owners {
		usernames[u.ID] = u.Username
	}

	out := make([]domain.TaskWithOwner, 0, len(tasks))
	for _, t := range tasks {
		username, ok := usernames[t.UserID]
		if !ok {
			s.logger.Debug().Str("task_id", t.ID).Str("user_id", t.UserID).Msg("task owner not found")
		}
		out = append(out, domain.TaskWithOwner{Task: t, Username: username})
	}
	return out, nil
}

func (s *TaskService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("task list cache invalidation failed")
	}
}
