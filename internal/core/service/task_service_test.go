package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/task-manager/internal/core/domain"
	"github.com/taskdesk/task-manager/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type taskFixture struct {
	users *stubUserRepo
	tasks *stubTaskRepo
	cache *stubCache
	svc   *TaskService
	owner *domain.User
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	users := newStubUserRepo()
	tasks := newStubTaskRepo()
	cache := &stubCache{}
	svc := NewTaskService(tasks, users, cache, discardLogger)

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	owner := users.seed(domain.User{Username: "alice", Email: "alice@example.com", Active: true})
	return &taskFixture{users: users, tasks: tasks, cache: cache, svc: svc, owner: owner}
}

func boolPtr(b bool) *bool { return &b }

// ---------------------------------------------------------------------------
// CreateTask
// ---------------------------------------------------------------------------

func TestTaskService_Create_Success(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.svc.CreateTask(context.Background(), ports.CreateTaskInput{
		UserID: f.owner.ID,
		Title:  "Fix printer",
		Text:   "Second floor printer jams",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.False(t, task.Completed)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, 1, f.cache.invalidated)

	stored, err := f.tasks.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix printer", stored.Title)
	assert.Equal(t, f.owner.ID, stored.UserID)
}

func TestTaskService_Create_MissingFields(t *testing.T) {
	f := newTaskFixture(t)

	cases := []ports.CreateTaskInput{
		{Title: "t", Text: "x"},
		{UserID: f.owner.ID, Text: "x"},
		{UserID: f.owner.ID, Title: "t"},
	}
	for _, in := range cases {
		_, err := f.svc.CreateTask(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, f.tasks.byID)
}

func TestTaskService_Create_DuplicateTitle(t *testing.T) {
	f := newTaskFixture(t)
	f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "Fix printer", Text: "a"})

	_, err := f.svc.CreateTask(context.Background(), ports.CreateTaskInput{
		UserID: f.owner.ID,
		Title:  "Fix printer",
		Text:   "b",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateTitle)
	assert.Len(t, f.tasks.byID, 1)
}

func TestTaskService_Create_UnknownUser(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.CreateTask(context.Background(), ports.CreateTaskInput{
		UserID: "ghost",
		Title:  "Fix printer",
		Text:   "b",
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, f.tasks.byID)
}

func TestTaskService_Create_RepositoryError(t *testing.T) {
	f := newTaskFixture(t)
	f.tasks.createErr = errors.New("connection reset")

	_, err := f.svc.CreateTask(context.Background(), ports.CreateTaskInput{
		UserID: f.owner.ID,
		Title:  "Fix printer",
		Text:   "b",
	})
	require.Error(t, err)
	assert.Equal(t, 0, f.cache.invalidated)
}

// ---------------------------------------------------------------------------
// UpdateTask
// ---------------------------------------------------------------------------

func TestTaskService_Update_PreservesID(t *testing.T) {
	f := newTaskFixture(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "Old", Text: "old", CreatedAt: created, UpdatedAt: created})
	bob := f.users.seed(domain.User{Username: "bob"})

	updated, err := f.svc.UpdateTask(context.Background(), ports.UpdateTaskInput{
		ID:        existing.ID,
		UserID:    bob.ID,
		Title:     "New",
		Text:      "new",
		Completed: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created))
	assert.True(t, updated.Completed)
	assert.Equal(t, bob.ID, updated.UserID)
	assert.Len(t, f.tasks.byID, 1)
}

func TestTaskService_Update_KeepsOwnTitle(t *testing.T) {
	f := newTaskFixture(t)
	existing := f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "Same", Text: "a"})

	_, err := f.svc.UpdateTask(context.Background(), ports.UpdateTaskInput{
		ID:        existing.ID,
		UserID:    f.owner.ID,
		Title:     "Same",
		Text:      "b",
		Completed: boolPtr(false),
	})
	require.NoError(t, err)
}

func TestTaskService_Update_DuplicateTitle(t *testing.T) {
	f := newTaskFixture(t)
	f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "Taken", Text: "a"})
	mine := f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "Mine", Text: "b"})

	_, err := f.svc.UpdateTask(context.Background(), ports.UpdateTaskInput{
		ID:        mine.ID,
		UserID:    f.owner.ID,
		Title:     "Taken",
		Text:      "b",
		Completed: boolPtr(false),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateTitle)
}

func TestTaskService_Update_Validation(t *testing.T) {
	f := newTaskFixture(t)
	existing := f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "T", Text: "a"})

	// Completed omitted.
	_, err := f.svc.UpdateTask(context.Background(), ports.UpdateTaskInput{
		ID: existing.ID, UserID: f.owner.ID, Title: "T", Text: "a",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.UpdateTask(context.Background(), ports.UpdateTaskInput{
		ID: "missing", UserID: f.owner.ID, Title: "T", Text: "a", Completed: boolPtr(true),
	})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = f.svc.UpdateTask(context.Background(), ports.UpdateTaskInput{
		ID: existing.ID, UserID: "ghost", Title: "T", Text: "a", Completed: boolPtr(true),
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ---------------------------------------------------------------------------
// DeleteTask
// ---------------------------------------------------------------------------

func TestTaskService_Delete(t *testing.T) {
	f := newTaskFixture(t)
	existing := f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "Bye", Text: "a"})

	deleted, err := f.svc.DeleteTask(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bye", deleted.Title)
	assert.Empty(t, f.tasks.byID)
	assert.Equal(t, 1, f.cache.invalidated)

	_, err = f.svc.DeleteTask(context.Background(), existing.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = f.svc.DeleteTask(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ---------------------------------------------------------------------------
// ListTasks / GetTask
// ---------------------------------------------------------------------------

func TestTaskService_List_Empty(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.ListTasks(context.Background())
	require.ErrorIs(t, err, domain.ErrNoTasks)
}

func TestTaskService_List_EnrichesAndSorts(t *testing.T) {
	f := newTaskFixture(t)
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	bob := f.users.seed(domain.User{Username: "bob"})
	f.tasks.seed(domain.Task{ID: "t1", UserID: f.owner.ID, Title: "done", Completed: true, CreatedAt: base})
	f.tasks.seed(domain.Task{ID: "t2", UserID: bob.ID, Title: "open", CreatedAt: base.Add(time.Hour)})
	f.tasks.seed(domain.Task{ID: "t3", UserID: "vanished", Title: "orphan", CreatedAt: base.Add(2 * time.Hour)})

	list, err := f.svc.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "t2", list[0].ID)
	assert.Equal(t, "bob", list[0].Username)
	assert.Equal(t, "t3", list[1].ID)
	assert.Empty(t, list[1].Username)
	assert.Equal(t, "t1", list[2].ID)
	assert.Equal(t, "alice", list[2].Username)

	assert.Equal(t, 1, f.users.findIDsCalls, "owners must be resolved in one batch")
	assert.Equal(t, 1, f.cache.sets)
}

func TestTaskService_List_ServedFromCache(t *testing.T) {
	f := newTaskFixture(t)
	f.cache.present = true
	f.cache.tasks = []domain.TaskWithOwner{{Task: domain.Task{ID: "cached"}, Username: "alice"}}

	list, err := f.svc.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cached", list[0].ID)
	assert.Equal(t, 0, f.users.findIDsCalls)
}

func TestTaskService_List_CacheErrorFallsBack(t *testing.T) {
	f := newTaskFixture(t)
	f.cache.getErr = errors.New("redis down")
	f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "a"})

	list, err := f.svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTaskService_List_WriteDuringReadNotCached(t *testing.T) {
	f := newTaskFixture(t)
	f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "first"})

	// A task is created after the list was read from the store but before
	// the reader fills the cache.
	f.tasks.afterList = func() {
		f.tasks.afterList = nil
		_, err := f.svc.CreateTask(context.Background(), ports.CreateTaskInput{
			UserID: f.owner.ID, Title: "second", Text: "x",
		})
		require.NoError(t, err)
	}

	list, err := f.svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2, "the list read before the write must not be served from cache")
}

func TestTaskService_List_CacheErrorSkipsWrite(t *testing.T) {
	f := newTaskFixture(t)
	f.cache.getErr = errors.New("redis down")
	f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "a"})

	_, err := f.svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.sets)
}

func TestTaskService_List_WithoutCache(t *testing.T) {
	users := newStubUserRepo()
	tasks := newStubTaskRepo()
	owner := users.seed(domain.User{Username: "carol"})
	tasks.seed(domain.Task{UserID: owner.ID, Title: "a"})

	svc := NewTaskService(tasks, users, nil, discardLogger)
	list, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "carol", list[0].Username)
}

func TestTaskService_Get(t *testing.T) {
	f := newTaskFixture(t)
	existing := f.tasks.seed(domain.Task{UserID: f.owner.ID, Title: "One"})

	got, err := f.svc.GetTask(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "One", got.Title)

	_, err = f.svc.GetTask(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
