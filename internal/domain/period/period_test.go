package period_test

import (
	"testing"
	"time"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
	. "github.com/smartystreets/goconvey/convey"
)

var today = time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

func TestPartition(t *testing.T) {
	Convey("Given an 8 day period", t, func() {
		qs := period.Partition("2025-01-01", "2025-01-08", today)

		Convey("Then each quarter spans two days", func() {
			So(qs, ShouldResemble, []model.Quarter{
				{ID: 1, Start: "2025-01-01", End: "2025-01-02"},
				{ID: 2, Start: "2025-01-03", End: "2025-01-04"},
				{ID: 3, Start: "2025-01-05", End: "2025-01-06"},
				{ID: 4, Start: "2025-01-07", End: "2025-01-08"},
			})
		})
	})

	Convey("Given a 10 day period", t, func() {
		qs := period.Partition("2025-01-01", "2025-01-10", today)

		Convey("Then the last quarter absorbs the remainder", func() {
			So(qs, ShouldResemble, []model.Quarter{
				{ID: 1, Start: "2025-01-01", End: "2025-01-02"},
				{ID: 2, Start: "2025-01-03", End: "2025-01-04"},
				{ID: 3, Start: "2025-01-05", End: "2025-01-06"},
				{ID: 4, Start: "2025-01-07", End: "2025-01-10"},
			})
		})
	})

	Convey("Given ranges of many lengths", t, func() {
		start := "2024-02-20"
		s, _ := period.Parse(start)

		for n := 1; n <= 120; n++ {
			end := period.Format(period.AddDays(s, n-1))
			qs := period.Partition(start, end, today)

			So(len(qs), ShouldEqual, 4)
			So(qs[0].Start, ShouldEqual, start)
			So(qs[3].End, ShouldEqual, end)

			covered := 0
			for i, q := range qs {
				qStart, _ := period.Parse(q.Start)
				qEnd, _ := period.Parse(q.End)
				covered += period.DaysBetween(qStart, qEnd) + 1

				if i > 0 {
					prevEnd, _ := period.Parse(qs[i-1].End)
					So(period.Format(period.AddDays(prevEnd, 1)), ShouldEqual, q.Start)
				}
			}
			So(covered, ShouldEqual, n)
		}
	})

	Convey("Given a single day period", t, func() {
		qs := period.Partition("2025-05-05", "2025-05-05", today)

		Convey("Then it does not crash and the last quarter is that day", func() {
			So(len(qs), ShouldEqual, 4)
			So(qs[3], ShouldResemble, model.Quarter{ID: 4, Start: "2025-05-05", End: "2025-05-05"})
			for _, q := range qs[:3] {
				So(q.Start, ShouldEqual, "2025-05-05")
			}
		})
	})

	Convey("Given missing dates", t, func() {
		for _, qs := range [][]model.Quarter{
			period.Partition("", "2025-01-08", today),
			period.Partition("2025-01-01", "", today),
		} {
			So(qs, ShouldResemble, []model.Quarter{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}})
		}
	})

	Convey("Given blank dates", t, func() {
		for _, qs := range [][]model.Quarter{
			period.Partition(" ", "2025-01-08", today),
			period.Partition("2025-01-01", "\t", today),
		} {
			So(qs, ShouldResemble, []model.Quarter{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}})
		}
	})

	Convey("Given an inverted range", t, func() {
		qs := period.Partition("2025-01-08", "2025-01-01", today)

		Convey("Then four empty placeholders come back", func() {
			So(qs, ShouldResemble, []model.Quarter{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}})
		})
	})

	Convey("Given an unparseable date", t, func() {
		qs := period.Partition("2025-13-45", "2025-01-08", today)

		Convey("Then quarter 1 is a today placeholder and the rest are empty", func() {
			So(qs[0], ShouldResemble, model.Quarter{ID: 1, Start: "2025-03-14", End: "2025-03-14"})
			So(qs[1:], ShouldResemble, []model.Quarter{{ID: 2}, {ID: 3}, {ID: 4}})
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a config with four complete quarters", t, func() {
		cfg := model.PeriodConfig{
			StartDate: "2025-01-01",
			EndDate:   "2025-01-08",
			Quarters: []model.Quarter{
				{ID: 1, Start: "2025-01-01", End: "2025-01-03"},
				{ID: 2, Start: "2025-01-04", End: "2025-01-04"},
				{ID: 3, Start: "2025-01-05", End: "2025-01-06"},
				{ID: 4, Start: "2025-01-07", End: "2025-01-08"},
			},
		}

		Convey("Then the configured quarters are kept", func() {
			So(period.Resolve(cfg, today).Quarters, ShouldResemble, cfg.Quarters)
		})
	})

	Convey("Given a config with a partial quarter list", t, func() {
		cfg := model.PeriodConfig{
			StartDate: "2025-01-01",
			EndDate:   "2025-01-08",
			Quarters:  []model.Quarter{{ID: 1, Start: "2025-01-01", End: "2025-01-03"}},
		}

		Convey("Then quarters are regenerated from the period", func() {
			got := period.Resolve(cfg, today)
			So(len(got.Quarters), ShouldEqual, 4)
			So(got.Quarters[0].End, ShouldEqual, "2025-01-02")
			So(got.Quarters[3].End, ShouldEqual, "2025-01-08")
		})

		Convey("And the input is not mutated", func() {
			period.Resolve(cfg, today)
			So(len(cfg.Quarters), ShouldEqual, 1)
		})
	})

	Convey("Given four quarters that overlap and leave the period", t, func() {
		cfg := model.PeriodConfig{
			StartDate: "2025-01-01",
			EndDate:   "2025-01-08",
			Quarters: []model.Quarter{
				{ID: 1, Start: "2025-01-01", End: "2025-01-05"},
				{ID: 2, Start: "2025-01-03", End: "2025-01-04"},
				{ID: 3, Start: "2025-03-01", End: "2025-03-02"},
				{ID: 4, Start: "2024-01-01", End: "2024-01-02"},
			},
		}

		Convey("Then quarters are regenerated from the period", func() {
			So(period.Resolve(cfg, today).Quarters, ShouldResemble, period.Partition("2025-01-01", "2025-01-08", today))
		})
	})

	Convey("Given no config at all", t, func() {
		got := period.Resolve(model.PeriodConfig{}, today)

		Convey("Then four unconfigured quarters come back", func() {
			So(len(got.Quarters), ShouldEqual, 4)
			for _, q := range got.Quarters {
				So(q.Configured(), ShouldBeFalse)
			}
		})
	})
}

func TestTiles(t *testing.T) {
	q := func(start, end string) model.Quarter { return model.Quarter{Start: start, End: end} }

	Convey("Given quarter lists over 2025-01-01..2025-01-08", t, func() {
		So(period.Tiles([]model.Quarter{
			q("2025-01-01", "2025-01-02"), q("2025-01-03", "2025-01-04"),
			q("2025-01-05", "2025-01-06"), q("2025-01-07", "2025-01-08"),
		}, "2025-01-01", "2025-01-08"), ShouldBeTrue)

		Convey("Then a gap, an overlap, a short end or a wrong count do not tile", func() {
			So(period.Tiles([]model.Quarter{
				q("2025-01-01", "2025-01-02"), q("2025-01-04", "2025-01-04"),
				q("2025-01-05", "2025-01-06"), q("2025-01-07", "2025-01-08"),
			}, "2025-01-01", "2025-01-08"), ShouldBeFalse)
			So(period.Tiles([]model.Quarter{
				q("2025-01-01", "2025-01-03"), q("2025-01-03", "2025-01-04"),
				q("2025-01-05", "2025-01-06"), q("2025-01-07", "2025-01-08"),
			}, "2025-01-01", "2025-01-08"), ShouldBeFalse)
			So(period.Tiles([]model.Quarter{
				q("2025-01-01", "2025-01-02"), q("2025-01-03", "2025-01-04"),
				q("2025-01-05", "2025-01-06"), q("2025-01-07", "2025-01-07"),
			}, "2025-01-01", "2025-01-08"), ShouldBeFalse)
			So(period.Tiles([]model.Quarter{
				q("2025-01-01", "2025-01-04"), q("2025-01-05", "2025-01-08"),
			}, "2025-01-01", "2025-01-08"), ShouldBeFalse)
		})

		Convey("Then generated partitions tile their range", func() {
			for _, end := range []string{"2025-01-04", "2025-01-08", "2025-01-10", "2025-03-31"} {
				So(period.Tiles(period.Partition("2025-01-01", end, today), "2025-01-01", end), ShouldBeTrue)
			}
		})
	})
}

func TestBounds(t *testing.T) {
	Convey("Given period configs", t, func() {
		s, e := period.Bounds(model.PeriodConfig{StartDate: "2025-01-01", EndDate: "2025-02-01"})
		So(s, ShouldEqual, "2025-01-01")
		So(e, ShouldEqual, "2025-02-01")

		s, e = period.Bounds(model.PeriodConfig{})
		So(s, ShouldEqual, period.UnboundedStart)
		So(e, ShouldEqual, period.UnboundedEnd)

		s, e = period.Bounds(model.PeriodConfig{StartDate: "garbage", EndDate: "2025-02-01"})
		So(s, ShouldEqual, period.UnboundedStart)
		So(e, ShouldEqual, "2025-02-01")
	})
}

func TestEnumerate(t *testing.T) {
	Convey("Given a range crossing a month and leap day", t, func() {
		dates := period.Enumerate("2024-02-27", "2024-03-02")

		Convey("Then every calendar day is listed in order", func() {
			So(dates, ShouldResemble, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"})
		})

		Convey("And enumeration is deterministic", func() {
			So(period.Enumerate("2024-02-27", "2024-03-02"), ShouldResemble, dates)
		})
	})

	Convey("Given degenerate input", t, func() {
		So(period.Enumerate("", "2025-01-01"), ShouldBeEmpty)
		So(period.Enumerate("2025-01-01", "nope"), ShouldBeEmpty)
		So(period.Enumerate("2025-01-02", "2025-01-01"), ShouldBeEmpty)
		So(period.Enumerate("2025-01-01", "2025-01-01"), ShouldResemble, []string{"2025-01-01"})
	})
}
