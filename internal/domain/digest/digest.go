// Package digest summarizes the roster for the coach.
package digest

import (
	"math"
	"time"

	"github.com/okian/trackload/internal/domain/load"
	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
)

// DefaultPainThreshold is the pain level that raises an alert.
const DefaultPainThreshold = 3

// PainAlert names a runner whose latest entry reports high pain.
type PainAlert struct {
	RunnerID    string `json:"runner_id"`
	DisplayName string `json:"display_name"`
	Date        string `json:"date"`
	PainLevel   int    `json:"pain_level"`
}

// Digest is the roster-wide summary.
type Digest struct {
	Date          string      `json:"date"`
	ActiveCount   int         `json:"active_count"`
	ReportedToday int         `json:"reported_today"`
	ReportRate    int         `json:"report_rate"`
	PainAlerts    []PainAlert `json:"pain_alerts"`
}

// Build computes the digest for today over the given active roster.
// ReportRate is the rounded percentage of runners with an entry dated
// today, 0 for an empty roster. A runner is flagged when the most recent
// entry, by date then creation time, has a pain level of at least
// threshold. A non-positive threshold uses DefaultPainThreshold.
func Build(runners []model.Runner, logs []model.LogEntry, today time.Time, threshold int) Digest {
	if threshold <= 0 {
		threshold = DefaultPainThreshold
	}
	date := period.Format(period.Today(today))
	idx := load.NewIndex(logs)

	d := Digest{Date: date, ActiveCount: len(runners), PainAlerts: []PainAlert{}}
	for _, r := range runners {
		if idx.Has(r.ID, date) {
			d.ReportedToday++
		}
		latest, ok := idx.Latest(r.ID)
		if ok && latest.PainLevel >= threshold {
			d.PainAlerts = append(d.PainAlerts, PainAlert{
				RunnerID:    r.ID,
				DisplayName: r.DisplayName(),
				Date:        latest.Date,
				PainLevel:   latest.PainLevel,
			})
		}
	}
	if d.ActiveCount > 0 {
		d.ReportRate = int(math.Round(100 * float64(d.ReportedToday) / float64(d.ActiveCount)))
	}
	return d
}

// Flagged returns the ids of runners with a pain alert.
func (d Digest) Flagged() []string {
	ids := make([]string, len(d.PainAlerts))
	for i, a := range d.PainAlerts {
		ids[i] = a.RunnerID
	}
	return ids
}
