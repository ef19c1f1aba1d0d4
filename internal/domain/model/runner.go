package model

import "strings"

// RunnerStatus is the roster state of a runner.
type RunnerStatus string

// Runner statuses.
const (
	StatusActive  RunnerStatus = "active"
	StatusRetired RunnerStatus = "retired"
)

// Valid reports whether s is a known status.
func (s RunnerStatus) Valid() bool {
	return s == StatusActive || s == StatusRetired
}

// Goals holds the distance targets of a runner. Zero means unset.
type Goals struct {
	Monthly float64    `json:"goal_monthly"`
	Period  float64    `json:"goal_period"`
	Quarter [4]float64 `json:"goal_quarters"`
}

// Runner is one roster member.
type Runner struct {
	ID        string       `json:"id"`
	LastName  string       `json:"last_name"`
	FirstName string       `json:"first_name"`
	Status    RunnerStatus `json:"status"`
	Goals     Goals        `json:"goals"`
}

// DisplayName returns "LastName FirstName", falling back to the id.
func (r Runner) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(r.LastName) + " " + strings.TrimSpace(r.FirstName))
	if name == "" {
		return r.ID
	}
	return name
}

// IsActive reports whether the runner belongs on active-roster views.
// An empty status is treated as active.
func (r Runner) IsActive() bool {
	return r.Status == StatusActive || r.Status == ""
}

// ActiveRoster returns the active runners in roster order, skipping the
// excluded ids (administrative accounts).
func ActiveRoster(runners []Runner, excluded ...string) []Runner {
	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	out := make([]Runner, 0, len(runners))
	for _, r := range runners {
		if !r.IsActive() {
			continue
		}
		if _, ok := skip[r.ID]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}
