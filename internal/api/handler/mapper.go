package handler

import (
	"github.com/taskdesk/task-manager/internal/core/domain"
	"github.com/taskdesk/task-manager/internal/core/ports"
)

// --- Request → Service input ---

func toCreateTaskInput(r createTaskRequest) ports.CreateTaskInput {
	return ports.CreateTaskInput{UserID: r.User, Title: r.Title, Text: r.Text}
}

func toUpdateTaskInput(r updateTaskRequest) ports.UpdateTaskInput {
	return ports.UpdateTaskInput{
		ID:        r.ID,
		UserID:    r.User,
		Title:     r.Title,
		Text:      r.Text,
		Completed: r.Completed,
	}
}

func toCreateUserInput(r createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Username: r.Username,
		FullName: r.FullName,
		Email:    r.Email,
		Password: r.Password,
		Roles:    r.Roles,
	}
}

func toUpdateUserInput(r updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		ID:       r.ID,
		Username: r.Username,
		FullName: r.FullName,
		Email:    r.Email,
		Password: r.Password,
		Roles:    r.Roles,
		Active:   r.Active,
	}
}

// --- Domain → HTTP response ---

func toTaskResponse(t domain.TaskWithOwner) taskResponse {
	return taskResponse{
		ID:        t.ID,
		User:      t.UserID,
		Username:  t.Username,
		Title:     t.Title,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}

func toTaskResponses(tasks []domain.TaskWithOwner) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toUserResponse(u domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Roles:     roles,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}
