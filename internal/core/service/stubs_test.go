package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/taskdesk/task-manager/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID         map[string]*domain.User
	seq          int
	createErr    error
	findIDsCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) sorted() []*domain.User {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.sorted() {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.sorted() {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.sorted() {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.findIDsCalls++
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	u.ID = fmt.Sprintf("u%03d", r.seq)
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// seed stores u directly, bypassing validation.
func (r *stubUserRepo) seed(u domain.User) *domain.User {
	r.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("u%03d", r.seq)
	}
	r.byID[u.ID] = cloneUser(&u)
	return cloneUser(&u)
}

type stubTaskRepo struct {
	byID      map[string]*domain.Task
	seq       int
	createErr error
	// afterList runs once List has read its snapshot.
	afterList func()
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) sorted() []*domain.Task {
	out := make([]*domain.Task, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.sorted() {
		out = append(out, *t)
	}
	if r.afterList != nil {
		r.afterList()
	}
	return out, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) FindByTitle(_ context.Context, title string) (*domain.Task, error) {
	for _, t := range r.sorted() {
		if t.Title == title {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *stubTaskRepo) ExistsForUser(_ context.Context, userID string) (bool, error) {
	for _, t := range r.byID {
		if t.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	t.ID = fmt.Sprintf("t%03d", r.seq)
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if _, ok := r.byID[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTaskRepo) seed(t domain.Task) *domain.Task {
	r.seq++
	if t.ID == "" {
		t.ID = fmt.Sprintf("t%03d", r.seq)
	}
	clone := t
	r.byID[t.ID] = &clone
	return &t
}

// stubCache mirrors the generation scheme of the Redis cache: Set only
// lands when gen is still current.
type stubCache struct {
	tasks       []domain.TaskWithOwner
	present     bool
	gen         int64
	getErr      error
	sets        int
	invalidated int
}

func (c *stubCache) Get(_ context.Context) ([]domain.TaskWithOwner, int64, bool, error) {
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	return c.tasks, c.gen, c.present, nil
}

func (c *stubCache) Set(_ context.Context, gen int64, tasks []domain.TaskWithOwner) error {
	c.sets++
	if gen != c.gen {
		return nil
	}
	c.tasks = tasks
	c.present = true
	return nil
}

func (c *stubCache) Invalidate(_ context.Context) error {
	c.invalidated++
	c.gen++
	c.tasks = nil
	c.present = false
	return nil
}
