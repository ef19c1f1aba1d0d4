package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/trackload/internal/app"
	"github.com/okian/trackload/internal/domain/model"
)

// IdempotencyHeader carries the client idempotency key when the body does not.
const IdempotencyHeader = "Idempotency-Key"

// LogDependencies defines the submission operations.
type LogDependencies interface {
	Submit(ctx context.Context, s model.Submission) (service.SubmitResult, error)
	Delete(ctx context.Context, key, id string) (service.SubmitResult, error)
}

// LogsHandler handles log submissions.
type LogsHandler struct {
	deps LogDependencies
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(deps LogDependencies) *LogsHandler {
	return &LogsHandler{deps: deps}
}

// logRequest mirrors the OpenAPI schema for POST /logs. An id refers to an
// existing entry to edit; without one a new entry is created.
type logRequest struct {
	IdempotencyKey string         `json:"idempotency_key"`
	ID             string         `json:"id"`
	RunnerID       string         `json:"runner_id"`
	Date           string         `json:"date"`
	DistanceKm     model.Distance `json:"distance_km"`
	Category       string         `json:"category"`
	RPE            int            `json:"rpe"`
	PainLevel      int            `json:"pain_level"`
	Memo           string         `json:"memo"`
}

func (l logRequest) submission(r *http.Request) model.Submission { //nolint:gocritic // request decoded by value
	key := l.IdempotencyKey
	if strings.TrimSpace(key) == "" {
		key = r.Header.Get(IdempotencyHeader)
	}
	return model.Submission{
		Key: key,
		Op:  model.OpPut,
		Entry: model.LogEntry{
			ID:         l.ID,
			RunnerID:   l.RunnerID,
			Date:       l.Date,
			DistanceKm: l.DistanceKm,
			Category:   l.Category,
			RPE:        l.RPE,
			PainLevel:  l.PainLevel,
			Memo:       l.Memo,
		},
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	ID        string `json:"id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

func ack(w http.ResponseWriter, res service.SubmitResult) {
	if res.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", ID: res.ID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: res.ID})
}

// HandlePostLog handles POST /logs requests.
func (h *LogsHandler) HandlePostLog(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_log"
	var req logRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Submit(r.Context(), req.submission(r))
	if err != nil {
		fail(w, op, err)
		return
	}
	ack(w, res)
}

// HandleDeleteLog handles DELETE /logs/{id} requests.
func (h *LogsHandler) HandleDeleteLog(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_log"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	res, err := h.deps.Delete(r.Context(), r.Header.Get(IdempotencyHeader), id)
	if err != nil {
		fail(w, op, err)
		return
	}
	ack(w, res)
}
