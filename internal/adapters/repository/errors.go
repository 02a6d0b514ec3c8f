package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrNoFields     = errors.New("no fields to update")
	ErrInvalidLimit = errors.New("invalid limit")
)
