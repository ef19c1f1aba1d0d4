package api

import (
	"context"
	"net/http"

	"github.com/okian/trackload/internal/domain/model"
)

// PeriodDependencies defines reading and editing the monitoring period.
type PeriodDependencies interface {
	Period(ctx context.Context) (model.PeriodConfig, error)
	SavePeriod(ctx context.Context, cfg model.PeriodConfig) (model.PeriodConfig, error)
}

// PeriodHandler handles period requests.
type PeriodHandler struct {
	deps PeriodDependencies
}

// NewPeriodHandler creates a new period handler.
func NewPeriodHandler(deps PeriodDependencies) *PeriodHandler {
	return &PeriodHandler{deps: deps}
}

// HandleGet handles GET /period requests. Quarters are always resolved.
func (h *PeriodHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.deps.Period(r.Context())
	if err != nil {
		fail(w, "api.get_period", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// HandlePut handles PUT /period requests.
func (h *PeriodHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_period"
	var req model.PeriodConfig
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	cfg, err := h.deps.SavePeriod(r.Context(), req)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
