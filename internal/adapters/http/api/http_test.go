package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/trackload/internal/adapters/http/api"
	"github.com/okian/trackload/internal/adapters/repository"
	service "github.com/okian/trackload/internal/app"
	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

type harness struct {
	svc   *service.Service
	store *repository.SQLStore
	mux   *http.ServeMux
}

func newHarness(wrap func(*service.Service) api.Dependencies) *harness {
	ctx := context.Background()
	store, err := repository.Open(ctx, "sqlite", repository.MemoryDSN)
	if err != nil {
		panic(err)
	}
	svc := service.New(
		service.WithStore(store),
		service.WithWorkerCount(2),
		service.WithClock(func() time.Time { return now }),
		service.WithMaxRankingLimit(10),
	)
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}

	var deps api.Dependencies = svc
	if wrap != nil {
		deps = wrap(svc)
	}
	mux := http.NewServeMux()
	api.NewServer(deps).Register(ctx, mux)
	return &harness{svc: svc, store: store, mux: mux}
}

func (h *harness) close() {
	_ = h.svc.Stop(context.Background())
	_ = h.store.Close()
}

// drain waits for every queued submission to be applied.
func (h *harness) drain() {
	if err := h.svc.Stop(context.Background()); err != nil {
		panic(err)
	}
}

func (h *harness) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		panic(err)
	}
	return v
}

func seedRoster(h *harness) {
	for _, body := range []string{
		`{"id":"r1","last_name":"Sato","first_name":"Ken"}`,
		`{"id":"r2","last_name":"Abe","first_name":"Yui","goals":{"goal_monthly":100}}`,
	} {
		if w := h.do(http.MethodPost, "/runners", body); w.Code != http.StatusOK {
			panic(w.Body.String())
		}
	}
	if w := h.do(http.MethodPut, "/period", `{"start_date":"2025-01-01","end_date":"2025-01-08"}`); w.Code != http.StatusOK {
		panic(w.Body.String())
	}
}

func TestLogsEndpoints(t *testing.T) {
	Convey("Given a running API", t, func() {
		h := newHarness(nil)
		defer h.close()
		seedRoster(h)

		Convey("When a log is posted twice with the same idempotency key", func() {
			body := `{"runner_id":"r1","date":"2025-01-05","distance_km":"5.2","category":"Jog"}`
			first := h.do(http.MethodPost, "/logs", body, api.IdempotencyHeader, "abc")
			second := h.do(http.MethodPost, "/logs", body, api.IdempotencyHeader, "abc")

			Convey("Then the first is accepted and the retry is a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusAccepted)
				ack := decode[map[string]any](first)
				So(ack["status"], ShouldEqual, "accepted")
				So(ack["id"], ShouldNotBeEmpty)

				So(second.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]any](second)["duplicate"], ShouldBeTrue)

				h.drain()
				logs, err := h.store.ListLogsByRunner(context.Background(), "r1")
				So(err, ShouldBeNil)
				So(len(logs), ShouldEqual, 1)
				So(logs[0].Category, ShouldEqual, "jog")
				So(logs[0].DistanceKm.Km(), ShouldEqual, 5.2)
			})
		})

		Convey("When bad submissions are posted", func() {
			malformed := h.do(http.MethodPost, "/logs", `{"runner_id":`)
			unknownField := h.do(http.MethodPost, "/logs", `{"runner_id":"r1","date":"2025-01-05","speed":3}`)
			unknownRunner := h.do(http.MethodPost, "/logs", `{"runner_id":"ghost","date":"2025-01-05","distance_km":1}`)
			badDate := h.do(http.MethodPost, "/logs", `{"runner_id":"r1","date":"05.01.2025","distance_km":1}`)
			missing := h.do(http.MethodDelete, "/logs/nope", "")

			Convey("Then each gets the matching status", func() {
				So(malformed.Code, ShouldEqual, http.StatusBadRequest)
				So(unknownField.Code, ShouldEqual, http.StatusBadRequest)
				So(unknownRunner.Code, ShouldEqual, http.StatusBadRequest)
				So(badDate.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[map[string]string](badDate)["code"], ShouldEqual, "bad_request")
				So(missing.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a service whose queue is full", t, func() {
		h := newHarness(func(svc *service.Service) api.Dependencies { return fullQueue{svc} })
		defer h.close()
		seedRoster(h)

		Convey("Then submissions are refused with 429", func() {
			w := h.do(http.MethodPost, "/logs", `{"runner_id":"r1","date":"2025-01-05","distance_km":1}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(decode[map[string]string](w)["code"], ShouldEqual, "backpressure")
		})
	})
}

type fullQueue struct {
	*service.Service
}

func (fullQueue) Submit(context.Context, model.Submission) (service.SubmitResult, error) { //nolint:gocritic // matches LogDependencies
	return service.SubmitResult{}, service.ErrBackpressure
}

func TestViewEndpoints(t *testing.T) {
	Convey("Given an API with logged training", t, func() {
		h := newHarness(nil)
		defer h.close()
		seedRoster(h)

		for _, body := range []string{
			`{"runner_id":"r1","date":"2025-01-05","distance_km":5}`,
			`{"runner_id":"r1","date":"2025-01-05","distance_km":3}`,
			`{"runner_id":"r1","date":"2025-01-06","category":"complete_rest"}`,
			`{"runner_id":"r2","date":"2025-01-08","distance_km":12.5,"pain_level":3}`,
		} {
			So(h.do(http.MethodPost, "/logs", body).Code, ShouldEqual, http.StatusAccepted)
		}
		h.drain()

		Convey("Then the ranking is ordered and limited", func() {
			w := h.do(http.MethodGet, "/ranking", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			entries := decode[[]api.Entry](w)
			So(len(entries), ShouldEqual, 2)
			So(entries[0].RunnerID, ShouldEqual, "r2")
			So(entries[1].Total, ShouldEqual, 8)

			So(len(decode[[]api.Entry](h.do(http.MethodGet, "/ranking?limit=1", ""))), ShouldEqual, 1)
			So(h.do(http.MethodGet, "/ranking?limit=zero", "").Code, ShouldEqual, http.StatusBadRequest)
			So(h.do(http.MethodGet, "/ranking?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then the report renders rest and unreported cells", func() {
			w := h.do(http.MethodGet, "/report", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := w.Body.String()
			So(body, ShouldContainSubstring, `"cells":[8,"unreported"]`)
			So(body, ShouldContainSubstring, `"cells":["rest","unreported"]`)
		})

		Convey("Then the CSV export is an attachment", func() {
			w := h.do(http.MethodGet, "/report.csv", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "attachment")
			lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
			So(lines[0], ShouldEqual, "Date,Sato Ken,Abe Yui")
			So(lines[5], ShouldEqual, "2025-01-05,8,unreported")
			So(lines[9], ShouldEqual, "Total,8,12.5")
		})

		Convey("Then trend, checklist and digest are served", func() {
			So(h.do(http.MethodGet, "/trend", "").Code, ShouldEqual, http.StatusOK)

			cl := decode[service.ChecklistView](h.do(http.MethodGet, "/checklist", ""))
			So(cl.Date, ShouldEqual, "2025-01-08")
			So(cl.Unreported, ShouldEqual, 1)
			So(h.do(http.MethodGet, "/checklist?date=someday", "").Code, ShouldEqual, http.StatusBadRequest)

			d := decode[map[string]any](h.do(http.MethodGet, "/digest", ""))
			So(d["report_rate"], ShouldEqual, 50.0)
			So(len(d["pain_alerts"].([]any)), ShouldEqual, 1)
		})

		Convey("Then runner stats and roster admin work", func() {
			w := h.do(http.MethodGet, "/runners/r2/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"today_km":12.5`)
			So(h.do(http.MethodGet, "/runners/ghost/stats", "").Code, ShouldEqual, http.StatusNotFound)

			So(h.do(http.MethodPut, "/runners/r2/status", `{"status":"retired"}`).Code, ShouldEqual, http.StatusOK)
			So(h.do(http.MethodPut, "/runners/r2/status", `{"status":"sleeping"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(len(decode[[]api.Entry](h.do(http.MethodGet, "/ranking", ""))), ShouldEqual, 1)

			So(h.do(http.MethodDelete, "/runners/r2", "").Code, ShouldEqual, http.StatusNoContent)
			So(len(decode[[]model.Runner](h.do(http.MethodGet, "/runners", ""))), ShouldEqual, 1)
		})

		Convey("Then a retired runner leaves the report but keeps their logs", func() {
			So(h.do(http.MethodPut, "/runners/r2/status", `{"status":"retired"}`).Code, ShouldEqual, http.StatusOK)

			w := h.do(http.MethodGet, "/report", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			m := decode[report.Matrix](w)
			So(m.Columns, ShouldResemble, []report.Column{{RunnerID: "r1", DisplayName: "Sato Ken"}})
			So(m.Total, ShouldResemble, []float64{8})

			logs, err := h.store.ListLogsByRunner(context.Background(), "r2")
			So(err, ShouldBeNil)
			So(len(logs), ShouldEqual, 1)
			So(logs[0].DistanceKm.Km(), ShouldEqual, 12.5)
		})

		Convey("Then the period comes back with quarters", func() {
			cfg := decode[model.PeriodConfig](h.do(http.MethodGet, "/period", ""))
			So(len(cfg.Quarters), ShouldEqual, 4)
			So(cfg.Quarters[3].End, ShouldEqual, "2025-01-08")
			So(h.do(http.MethodPut, "/period", `{"start_date":"2025-02-01","end_date":"2025-01-01"}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given a running API", t, func() {
		h := newHarness(nil)
		defer h.close()

		Convey("Then healthz serves metrics and stats serves JSON", func() {
			w := h.do(http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "trackload_")

			stats := decode[map[string]any](h.do(http.MethodGet, "/stats", ""))
			So(stats["started"], ShouldBeTrue)
		})

		Convey("Then a wrong method is refused", func() {
			So(h.do(http.MethodPost, "/ranking", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}
