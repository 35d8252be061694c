package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/task-manager/internal/api/metrics"
	"github.com/taskdesk/task-manager/internal/core/domain"
	"github.com/taskdesk/task-manager/internal/core/ports"
)

// UserService implements user management on top of the user and task stores.
type UserService struct {
	users    ports.UserRepository
	tasks    ports.TaskRepository
	cache    ports.TaskListCache
	logger   zerolog.Logger
	hashCost int
	now      func() time.Time
}

func NewUserService(users ports.UserRepository, tasks ports.TaskRepository, cache ports.TaskListCache, logger zerolog.Logger) *UserService {
	return &UserService{
		users:    users,
		tasks:    tasks,
		cache:    cache,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrNoUsers
	}
	return users, nil
}

// GetUser returns a single user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.users.FindByID(ctx, id)
}

// CreateUser registers a new active user with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || input.FullName == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	if err := s.ensureUnique(ctx, input.Username, input.Email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = domain.DefaultRoles()
	}

	now := s.now()
	user := &domain.User{
		Username:     input.Username,
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Roles:        roles,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, err
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user created")
	return user, nil
}

// UpdateUser overwrites username, roles and active flag. Full name and email
// are replaced only when supplied; the password is rehashed only when supplied.
func (s *UserService) UpdateUser(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	if input.ID == "" || input.Username == "" || len(input.Roles) == 0 || input.Active == nil {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, input.Username, input.Email, user.ID); err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.Roles = input.Roles
	user.Active = *input.Active
	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to update user")
		return nil, err
	}

	// Task listings embed usernames.
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("task list cache invalidation failed")
		}
	}

	s.logger.Info().Str("user_id", user.ID).Bool("active", user.Active).Msg("user updated")
	return user, nil
}

// DeleteUser removes a user that owns no tasks.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	hasTasks, err := s.tasks.ExistsForUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check user tasks: %w", err)
	}
	if hasTasks {
		return nil, domain.ErrUserHasTasks
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to delete user")
		return nil, err
	}

	metrics.UsersDeletedTotal.Inc()
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user deleted")
	return user, nil
}

// ensureUnique checks username and (when non-empty) email against every user
// other than selfID.
func (s *UserService) ensureUnique(ctx context.Context, username, email, selfID string) error {
	clash, err := conflicts(s.users.FindByUsername(ctx, username))(selfID)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if clash {
		return domain.ErrDuplicateUsername
	}

	if email == "" {
		return nil
	}
	clash, err = conflicts(s.users.FindByEmail(ctx, email))(selfID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if clash {
		return domain.ErrDuplicateEmail
	}
	return nil
}

// conflicts turns a lookup result into a check of whether the match belongs
// to someone other than selfID.
func conflicts(existing *domain.User, err error) func(selfID string) (bool, error) {
	return func(selfID string) (bool, error) {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return false, nil
		case err != nil:
			return false, err
		}
		return existing.ID != selfID, nil
	}
}
