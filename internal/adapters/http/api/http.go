// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/trackload/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LogDependencies
	RunnerDependencies
	PeriodDependencies
	ViewDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	logsHandler   *LogsHandler
	runners       *RunnersHandler
	period        *PeriodHandler
	views         *ViewsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		logsHandler:   NewLogsHandler(deps),
		runners:       NewRunnersHandler(deps),
		period:        NewPeriodHandler(deps),
		views:         NewViewsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	routes := []struct {
		pattern  string
		endpoint string
		handler  http.HandlerFunc
	}{
		{"GET /healthz", "healthz", s.healthHandler.HandleHealth},
		{"GET /stats", "stats", s.statsHandler.HandleStats},

		{"POST /logs", "logs", s.logsHandler.HandlePostLog},
		{"DELETE /logs/{id}", "logs", s.logsHandler.HandleDeleteLog},

		{"GET /runners", "runners", s.runners.HandleList},
		{"POST /runners", "runners", s.runners.HandleUpsert},
		{"PUT /runners/{id}/status", "runner_status", s.runners.HandleSetStatus},
		{"DELETE /runners/{id}", "runners", s.runners.HandleDelete},
		{"GET /runners/{id}/stats", "runner_stats", s.runners.HandleStats},

		{"GET /period", "period", s.period.HandleGet},
		{"PUT /period", "period", s.period.HandlePut},

		{"GET /ranking", "ranking", s.views.HandleRanking},
		{"GET /report", "report", s.views.HandleReport},
		{"GET /report.csv", "report_csv", s.views.HandleReportCSV},
		{"GET /trend", "trend", s.views.HandleTrend},
		{"GET /checklist", "checklist", s.views.HandleChecklist},
		{"GET /digest", "digest", s.views.HandleDigest},
	}
	for _, rt := range routes {
		mux.HandleFunc(rt.pattern, MetricsMiddleware(rt.handler, rt.endpoint))
	}
}
