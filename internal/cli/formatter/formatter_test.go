package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/report"
	"github.com/okian/trackload/internal/domain/types"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"A", "Long header"}, [][]string{{"wide cell", "x"}, {"y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A          Long header", lines[0])
	assert.Equal(t, "wide cell  x", lines[2])
	assert.Equal(t, "y          ", lines[3])

	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatMatrix(t *testing.T) {
	runners := []model.Runner{{ID: "r1", LastName: "Sato", FirstName: "Ken"}}
	logs := []model.LogEntry{
		{ID: "a", RunnerID: "r1", Date: "2025-01-01", DistanceKm: 3.2},
		{ID: "b", RunnerID: "r1", Date: "2025-01-01", DistanceKm: 4.1},
		{ID: "c", RunnerID: "r1", Date: "2025-01-02", Category: model.CategoryRest},
	}
	quarters := []model.Quarter{{ID: 1, Start: "2025-01-01", End: "2025-01-03"}}
	m := report.BuildMatrix([]string{"2025-01-01", "2025-01-02", "2025-01-03"}, runners, logs, quarters)

	out := FormatMatrix(m)
	assert.Contains(t, out, "Sato Ken")
	assert.Contains(t, out, "7.3")
	assert.Contains(t, out, report.RestText)
	assert.Contains(t, out, report.UnreportedText)
	assert.Contains(t, out, "Q1")

	assert.Contains(t, FormatMatrix(report.Matrix{}), "No active runners")
}

func TestFormatRankingAndQuarters(t *testing.T) {
	out := FormatRanking([]types.Entry{{Rank: 1, DisplayName: "Abe Yui", Total: 12.5}})
	assert.Contains(t, out, "Abe Yui")
	assert.Contains(t, out, "12.5")

	out = FormatQuarters([]model.Quarter{{ID: 1, Start: "2025-01-01", End: "2025-01-02"}, {ID: 2}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], "Q2")
	assert.Contains(t, lines[3], "-")
}
