package domain

import "errors"

var (
	ErrInvalidInput = errors.New("all fields are required")
	ErrInvalidID    = errors.New("invalid id")
	ErrForbidden    = errors.New("access forbidden")
)
