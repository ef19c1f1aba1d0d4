package api

import (
	"context"
	"net/http"

	"github.com/okian/trackload/internal/domain/load"
	"github.com/okian/trackload/internal/domain/model"
)

// RunnerDependencies defines roster administration and per-runner reads.
type RunnerDependencies interface {
	ListRunners(ctx context.Context) ([]model.Runner, error)
	UpsertRunner(ctx context.Context, r model.Runner) (model.Runner, error)
	SetRunnerStatus(ctx context.Context, id string, status model.RunnerStatus) error
	DeleteRunner(ctx context.Context, id string) error
	RunnerStats(ctx context.Context, runnerID string) (load.RunnerStats, error)
}

// RunnersHandler handles roster requests.
type RunnersHandler struct {
	deps RunnerDependencies
}

// NewRunnersHandler creates a new runners handler.
func NewRunnersHandler(deps RunnerDependencies) *RunnersHandler {
	return &RunnersHandler{deps: deps}
}

type statusRequest struct {
	Status model.RunnerStatus `json:"status"`
}

// HandleList handles GET /runners requests.
func (h *RunnersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	runners, err := h.deps.ListRunners(r.Context())
	if err != nil {
		fail(w, "api.list_runners", err)
		return
	}
	if runners == nil {
		runners = []model.Runner{}
	}
	writeJSON(w, http.StatusOK, runners)
}

// HandleUpsert handles POST /runners requests.
func (h *RunnersHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_runner"
	var req model.Runner
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	runner, err := h.deps.UpsertRunner(r.Context(), req)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, runner)
}

// HandleSetStatus handles PUT /runners/{id}/status requests.
func (h *RunnersHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_runner_status"
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id := r.PathValue("id")
	if err := h.deps.SetRunnerStatus(r.Context(), id, req.Status); err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

// HandleDelete handles DELETE /runners/{id} requests. It purges the
// runner's logs as well.
func (h *RunnersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteRunner(r.Context(), r.PathValue("id")); err != nil {
		fail(w, "api.delete_runner", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats handles GET /runners/{id}/stats requests.
func (h *RunnersHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.runner_stats"
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	stats, err := h.deps.RunnerStats(r.Context(), id)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
