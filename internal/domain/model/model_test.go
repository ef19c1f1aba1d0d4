package model_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/okian/trackload/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDistanceDecoding(t *testing.T) {
	Convey("Given log entries with assorted distance encodings", t, func() {
		cases := map[string]float64{
			`{"distance_km": 5.5}`:    5.5,
			`{"distance_km": "12.3"}`: 12.3,
			`{"distance_km": ""}`:     0,
			`{"distance_km": "fast"}`: 0,
			`{"distance_km": null}`:   0,
			`{"distance_km": -4}`:     0,
			`{"distance_km": true}`:   0,
			`{}`:                      0,
		}

		for raw, want := range cases {
			var e model.LogEntry
			err := json.Unmarshal([]byte(raw), &e)

			So(err, ShouldBeNil)
			So(e.DistanceKm.Km(), ShouldEqual, want)
		}
	})

	Convey("Given a non-finite distance", t, func() {
		d := model.Distance(math.NaN())

		Convey("Then it reads and encodes as zero", func() {
			So(d.Km(), ShouldEqual, 0)
			b, err := json.Marshal(d)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "0")
		})
	})
}

func TestLogEntryIsRest(t *testing.T) {
	Convey("Given categories", t, func() {
		So(model.LogEntry{Category: model.CategoryRest}.IsRest(), ShouldBeTrue)
		So(model.LogEntry{Category: " Complete_Rest "}.IsRest(), ShouldBeTrue)
		So(model.LogEntry{Category: "jog"}.IsRest(), ShouldBeFalse)
		So(model.LogEntry{}.IsRest(), ShouldBeFalse)
	})
}

func TestActiveRoster(t *testing.T) {
	Convey("Given a roster with retired runners and an admin account", t, func() {
		runners := []model.Runner{
			{ID: "admin", LastName: "Coach", Status: model.StatusActive},
			{ID: "r1", LastName: "Sato", FirstName: "Ken", Status: model.StatusActive},
			{ID: "r2", LastName: "Ito", FirstName: "Mai", Status: model.StatusRetired},
			{ID: "r3", LastName: "Abe", FirstName: "Jun"},
		}

		Convey("When filtering", func() {
			active := model.ActiveRoster(runners, "admin")

			Convey("Then only active non-admin runners remain in roster order", func() {
				So(len(active), ShouldEqual, 2)
				So(active[0].ID, ShouldEqual, "r1")
				So(active[1].ID, ShouldEqual, "r3")
			})
		})

		Convey("Then display names join last and first name", func() {
			So(runners[1].DisplayName(), ShouldEqual, "Sato Ken")
			So(model.Runner{ID: "x"}.DisplayName(), ShouldEqual, "x")
		})
	})
}

func TestQuarterContains(t *testing.T) {
	Convey("Given a quarter", t, func() {
		q := model.Quarter{ID: 1, Start: "2025-01-01", End: "2025-01-02"}

		So(q.Contains("2025-01-01"), ShouldBeTrue)
		So(q.Contains("2025-01-02"), ShouldBeTrue)
		So(q.Contains("2025-01-03"), ShouldBeFalse)
		So(model.Quarter{ID: 2}.Contains("2025-01-01"), ShouldBeFalse)
	})
}
