package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownDriver  = errors.New("unknown store driver")
	ErrImmutableField = errors.New("date and runner of a log cannot change")
	ErrInvalidRecord  = errors.New("invalid record")
)
