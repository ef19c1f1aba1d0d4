package seedlogs

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/ranking"
)

// ErrMismatch reports a served ranking that differs from the expected one.
var ErrMismatch = errors.New("ranking mismatch")

// tolerance absorbs float noise from rounded sums.
const tolerance = 0.05

// Expected ranks the dataset the way the service should.
func Expected(ds *Dataset) []Entry {
	return ranking.Build(ds.Runners, ds.Entries(), ds.Period)
}

// Verify compares a served ranking with the expected one. Runners with
// equal totals may appear in either order, so rows are matched by runner
// and the served order only has to be non-increasing.
func Verify(expected, got []Entry) error {
	if len(got) != len(expected) {
		return fmt.Errorf("%w: %d entries served, %d expected", ErrMismatch, len(got), len(expected))
	}

	want := make(map[string]float64, len(expected))
	for _, e := range expected {
		want[e.RunnerID] = e.Total
	}

	var errs []error
	for i, e := range got {
		if e.Rank != i+1 {
			errs = append(errs, fmt.Errorf("%w: row %d has rank %d", ErrMismatch, i, e.Rank))
		}
		total, ok := want[e.RunnerID]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: unexpected runner %s", ErrMismatch, e.RunnerID))
		case math.Abs(total-e.Total) > tolerance:
			errs = append(errs, fmt.Errorf("%w: runner %s has %.1f km, expected %.1f", ErrMismatch, e.RunnerID, e.Total, total))
		}
		if i > 0 && e.Total > got[i-1].Total {
			errs = append(errs, fmt.Errorf("%w: row %d (%.1f) outranks row %d (%.1f)", ErrMismatch, i, e.Total, i-1, got[i-1].Total))
		}
	}
	return errors.Join(errs...)
}

// matches reports whether the served ranking is already complete.
func matches(expected, got []Entry) bool {
	return Verify(expected, got) == nil
}

// totalDistance sums every generated entry for the run summary.
func totalDistance(logs []model.LogEntry) float64 {
	var sum float64
	for _, l := range logs {
		sum += l.DistanceKm.Km()
	}
	return math.Round(sum*10) / 10
}
