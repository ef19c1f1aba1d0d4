package trend_test

import (
	"testing"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/period"
	"github.com/okian/trackload/internal/domain/trend"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCumulative(t *testing.T) {
	Convey("Given a runner with a multi entry day, a rest day and a gap", t, func() {
		dates := period.Enumerate("2025-01-01", "2025-01-05")
		runners := []model.Runner{{ID: "r1"}, {ID: "r2"}}
		logs := []model.LogEntry{
			{ID: "1", RunnerID: "r1", Date: "2025-01-01", DistanceKm: 3.2},
			{ID: "2", RunnerID: "r1", Date: "2025-01-01", DistanceKm: 4.1},
			{ID: "3", RunnerID: "r1", Date: "2025-01-02", Category: model.CategoryRest},
			{ID: "4", RunnerID: "r1", Date: "2025-01-04", DistanceKm: 10},
			{ID: "5", RunnerID: "r2", Date: "2025-01-05", DistanceKm: 1.5},
		}

		points := trend.Cumulative(dates, runners, logs)

		Convey("Then every day of the range has a point", func() {
			So(len(points), ShouldEqual, 5)
			So(points[0].Date, ShouldEqual, "2025-01-01")
			So(points[4].Date, ShouldEqual, "2025-01-05")
		})

		Convey("Then same-day entries are summed, not first-match", func() {
			So(trend.Series(points, "r1"), ShouldResemble, []float64{7.3, 7.3, 7.3, 17.3, 17.3})
			So(trend.Series(points, "r2"), ShouldResemble, []float64{0, 0, 0, 0, 1.5})
		})

		Convey("Then values never decrease", func() {
			for _, r := range runners {
				s := trend.Series(points, r.ID)
				for i := 1; i < len(s); i++ {
					So(s[i], ShouldBeGreaterThanOrEqualTo, s[i-1])
				}
			}
		})
	})

	Convey("Given no dates", t, func() {
		So(trend.Cumulative(nil, []model.Runner{{ID: "r1"}}, nil), ShouldBeEmpty)
	})
}
