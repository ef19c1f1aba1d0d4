package worker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
)

// Scale bounds for subjective ratings. Zero means "not given" and is kept.
const (
	minRPE  = 1
	maxRPE  = 10
	minPain = 1
	maxPain = 5
)

// Normalizer turns a raw submission into its canonical stored form.
type Normalizer interface {
	Normalize(ctx context.Context, s model.Submission) (model.Submission, error)
}

// DefaultNormalizer canonicalizes dates, coerces distances, assigns ids and
// clamps rating scales.
type DefaultNormalizer struct {
	now   func() time.Time
	newID func() string
}

// NormalizerOption configures a DefaultNormalizer.
type NormalizerOption func(*DefaultNormalizer)

// WithNow sets the clock used when neither CreatedAt nor ReceivedAt is set.
func WithNow(now func() time.Time) NormalizerOption {
	return func(n *DefaultNormalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) NormalizerOption {
	return func(n *DefaultNormalizer) {
		if gen != nil {
			n.newID = gen
		}
	}
}

// NewNormalizer creates a DefaultNormalizer.
func NewNormalizer(opts ...NormalizerOption) *DefaultNormalizer {
	n := &DefaultNormalizer{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize implements Normalizer. It is idempotent.
func (n *DefaultNormalizer) Normalize(_ context.Context, s model.Submission) (model.Submission, error) { //nolint:gocritic // submissions travel by value
	s.Key = strings.TrimSpace(s.Key)
	s.Entry.ID = strings.TrimSpace(s.Entry.ID)

	switch s.Op {
	case model.OpDelete:
		if s.Entry.ID == "" {
			return s, ErrMissingID
		}
		return s, nil
	case model.OpEdit:
		if s.Entry.ID == "" {
			return s, ErrMissingID
		}
	case "", model.OpPut:
		s.Op = model.OpPut
	default:
		return s, ErrUnknownOp
	}

	e := &s.Entry
	e.RunnerID = strings.TrimSpace(e.RunnerID)
	if e.RunnerID == "" {
		return s, ErrMissingRunner
	}
	date, ok := period.Canonical(e.Date)
	if !ok {
		return s, ErrInvalidDate
	}
	e.Date = date

	if e.ID == "" {
		e.ID = n.newID()
	}
	e.DistanceKm = model.Distance(e.DistanceKm.Km())
	e.Category = strings.ToLower(strings.TrimSpace(e.Category))
	e.Memo = strings.TrimSpace(e.Memo)
	e.RPE = clamp(e.RPE, minRPE, maxRPE)
	e.PainLevel = clamp(e.PainLevel, minPain, maxPain)

	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.ReceivedAt
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = n.now()
	}
	return s, nil
}

func clamp(v, lo, hi int) int {
	switch {
	case v == 0:
		return 0
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
