package worker

import (
	"errors"
	"fmt"
)

// ErrInvalidSubmission is the kind shared by every rejection below.
var ErrInvalidSubmission = errors.New("invalid submission")

// Rejection reasons.
var (
	ErrMissingRunner = fmt.Errorf("%w: runner_id is required", ErrInvalidSubmission)
	ErrInvalidDate   = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidSubmission)
	ErrMissingID     = fmt.Errorf("%w: id is required", ErrInvalidSubmission)
	ErrUnknownOp     = fmt.Errorf("%w: unknown operation", ErrInvalidSubmission)
)

// Reason returns a short metrics label for a rejection error.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingRunner):
		return "missing_runner"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrMissingID):
		return "missing_id"
	case errors.Is(err, ErrUnknownOp):
		return "unknown_op"
	default:
		return "other"
	}
}
