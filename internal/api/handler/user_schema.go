package handler

import "time"

// --- Request types ---

type createUserRequest struct {
	Username string   `json:"username" validate:"required"`
	FullName string   `json:"fullname" validate:"required"`
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	Roles    []string `json:"roles"    validate:"omitempty,dive,oneof=Employee Manager Admin"`
}

type updateUserRequest struct {
	ID       string   `json:"id"       validate:"required"`
	Username string   `json:"username" validate:"required"`
	FullName string   `json:"fullname"`
	Email    string   `json:"email"    validate:"omitempty,email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"    validate:"required,min=1,dive,oneof=Employee Manager Admin"`
	Active   *bool    `json:"active"   validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

// userResponse never carries the password hash.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullname"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type loginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        userResponse `json:"user"`
}
