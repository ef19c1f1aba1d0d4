package service

import (
	"errors"
	"fmt"

	"github.com/okian/trackload/internal/adapters/mq/worker"
)

var (
	// ErrNotStarted is returned by operations that need a running service.
	ErrNotStarted = errors.New("service not started")

	// ErrBackpressure means the submission queue is full or closed.
	ErrBackpressure = errors.New("submission queue is full")

	// ErrInvalidInput is the kind shared by admin validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// Submission and admin validation errors. The submission ones keep
// worker.ErrInvalidSubmission in their chain.
var (
	ErrUnknownRunner = fmt.Errorf("%w: unknown runner", worker.ErrInvalidSubmission)
	ErrMissingRunner = fmt.Errorf("%w: runner id is required", ErrInvalidInput)
	ErrInvalidStatus = fmt.Errorf("%w: status must be active or retired", ErrInvalidInput)
	ErrInvalidPeriod = fmt.Errorf("%w: invalid period", ErrInvalidInput)
	ErrInvalidDate   = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
)
