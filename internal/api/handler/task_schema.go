package handler

import "time"

// --- Request types ---

type createTaskRequest struct {
	User  string `json:"user"  validate:"required"`
	Title string `json:"title" validate:"required"`
	Text  string `json:"text"  validate:"required"`
}

type updateTaskRequest struct {
	ID        string `json:"id"        validate:"required"`
	User      string `json:"user"      validate:"required"`
	Title     string `json:"title"     validate:"required"`
	Text      string `json:"text"      validate:"required"`
	Completed *bool  `json:"completed" validate:"required"`
}

// deleteRequest identifies the record to delete, from the body or ?id=.
type deleteRequest struct {
	ID string `json:"id" query:"id" validate:"required"`
}

// --- Response types ---

type taskResponse struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
