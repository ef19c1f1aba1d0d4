package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	service "github.com/okian/trackload/internal/app"
	"github.com/okian/trackload/internal/domain/digest"
	"github.com/okian/trackload/internal/domain/report"
)

// reportFilename is the attachment name of the CSV export.
const reportFilename = "training-report.csv"

// ViewDependencies defines the derived read views.
type ViewDependencies interface {
	Ranking(ctx context.Context, limit int) ([]Entry, error)
	Report(ctx context.Context) (report.Matrix, error)
	Trend(ctx context.Context) (service.TrendView, error)
	Checklist(ctx context.Context, date string) (service.ChecklistView, error)
	Digest(ctx context.Context) (digest.Digest, error)
}

// ViewsHandler handles the report views.
type ViewsHandler struct {
	deps ViewDependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps ViewDependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleRanking handles GET /ranking?limit=N requests. The limit is
// optional; without it every runner is returned.
func (h *ViewsHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking"
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	entries, err := h.deps.Ranking(r.Context(), limit)
	if err != nil {
		fail(w, op, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleReport handles GET /report requests.
func (h *ViewsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Report(r.Context())
	if err != nil {
		fail(w, "api.get_report", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleReportCSV handles GET /report.csv requests.
func (h *ViewsHandler) HandleReportCSV(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report_csv"
	m, err := h.deps.Report(r.Context())
	if err != nil {
		fail(w, op, err)
		return
	}

	// Render fully first so a write error still yields a proper status.
	var buf bytes.Buffer
	if err := m.WriteCSV(&buf); err != nil {
		fail(w, op, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+reportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleTrend handles GET /trend requests.
func (h *ViewsHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Trend(r.Context())
	if err != nil {
		fail(w, "api.get_trend", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleChecklist handles GET /checklist?date=YYYY-MM-DD requests.
func (h *ViewsHandler) HandleChecklist(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Checklist(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		fail(w, "api.get_checklist", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDigest handles GET /digest requests.
func (h *ViewsHandler) HandleDigest(w http.ResponseWriter, r *http.Request) {
	d, err := h.deps.Digest(r.Context())
	if err != nil {
		fail(w, "api.get_digest", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
