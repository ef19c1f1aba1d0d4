package seedlogs

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
)

var (
	lastNames  = []string{"Sato", "Suzuki", "Takahashi", "Tanaka", "Ito", "Watanabe", "Yamamoto", "Nakamura", "Kobayashi", "Kato"}
	firstNames = []string{"Ken", "Yui", "Haruto", "Aoi", "Sota", "Mei", "Riku", "Hina", "Yuto", "Sakura"}
)

// Generate builds a roster, a period and a training log for it. The same
// seed always yields the same dataset apart from idempotency keys.
func Generate(cfg *Config) (Dataset, error) {
	if cfg.Runners < 1 {
		return Dataset{}, fmt.Errorf("runners must be positive, got %d", cfg.Runners)
	}
	if cfg.Days < 1 {
		return Dataset{}, fmt.Errorf("days must be positive, got %d", cfg.Days)
	}
	start, ok := period.Parse(cfg.StartDate)
	if !ok {
		return Dataset{}, fmt.Errorf("invalid start date %q", cfg.StartDate)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	end := period.AddDays(start, cfg.Days-1)
	ds := Dataset{
		Period: model.PeriodConfig{
			StartDate: period.Format(start),
			EndDate:   period.Format(end),
		},
		Runners: make([]model.Runner, cfg.Runners),
	}

	for i := range ds.Runners {
		ds.Runners[i] = model.Runner{
			ID:        fmt.Sprintf("r%03d", i+1),
			LastName:  lastNames[i%len(lastNames)],
			FirstName: firstNames[(i/len(lastNames))%len(firstNames)],
			Status:    model.StatusActive,
			Goals:     model.Goals{Monthly: float64(100 + 20*rng.IntN(6))},
		}
	}

	dates := period.Enumerate(ds.Period.StartDate, ds.Period.EndDate)
	for _, r := range ds.Runners {
		base := 4 + rng.Float64()*10
		for _, date := range dates {
			ds.Logs = append(ds.Logs, dayLogs(rng, r.ID, date, base)...)
		}
	}
	return ds, nil
}

func dayLogs(rng *rand.Rand, runnerID, date string, base float64) []LogRequest {
	if rng.Float64() < restDayChance {
		return []LogRequest{{
			IdempotencyKey: uuid.NewString(),
			RunnerID:       runnerID,
			Date:           date,
			Category:       model.CategoryRest,
		}}
	}

	sessions := 1
	if rng.Float64() < doubleDayChance {
		sessions = 2
	}
	out := make([]LogRequest, 0, sessions)
	for range sessions {
		out = append(out, LogRequest{
			IdempotencyKey: uuid.NewString(),
			RunnerID:       runnerID,
			Date:           date,
			DistanceKm:     math.Round((base*(0.5+rng.Float64()))*10) / 10,
			Category:       categories[rng.IntN(len(categories))],
			RPE:            1 + rng.IntN(10),
			PainLevel:      painLevel(rng),
		})
	}
	return out
}

// painLevel is mostly unreported, occasionally mild, rarely high.
func painLevel(rng *rand.Rand) int {
	switch p := rng.Float64(); {
	case p < 0.7:
		return 0
	case p < 0.95:
		return 1 + rng.IntN(2)
	default:
		return 3 + rng.IntN(3)
	}
}

// Entries converts the generated log into stored entries for local
// aggregation.
func (d *Dataset) Entries() []model.LogEntry {
	out := make([]model.LogEntry, len(d.Logs))
	for i, l := range d.Logs {
		out[i] = model.LogEntry{
			ID:         l.IdempotencyKey,
			RunnerID:   l.RunnerID,
			Date:       l.Date,
			DistanceKm: model.Distance(l.DistanceKm),
			Category:   l.Category,
			RPE:        l.RPE,
			PainLevel:  l.PainLevel,
		}
	}
	return out
}
