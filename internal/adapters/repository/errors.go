package repository

import "errors"

// Sentinel kinds for score store errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrEmptyName       = errors.New("entity name must not be empty")
	ErrInvalidName     = errors.New("entity name must be valid UTF-8")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
