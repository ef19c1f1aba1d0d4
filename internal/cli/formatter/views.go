package formatter

import (
	"fmt"
	"strconv"

	service "github.com/okian/trackload/internal/app"
	"github.com/okian/trackload/internal/domain/model"
	"github.com/okian/trackload/internal/domain/report"
	"github.com/okian/trackload/internal/domain/types"
)

func km(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMatrix renders the report matrix with its total and quarter rows.
func FormatMatrix(m report.Matrix) string {
	if len(m.Columns) == 0 {
		return StyleDim.Render("No active runners.") + "\n"
	}

	headers := make([]string, 0, len(m.Columns)+1)
	headers = append(headers, report.DateHeader)
	for _, c := range m.Columns {
		headers = append(headers, c.DisplayName)
	}

	rows := make([][]string, 0, len(m.Rows)+1+len(m.Quarters))
	for _, r := range m.Rows {
		row := []string{r.Date}
		for _, c := range r.Cells {
			row = append(row, CellText(c))
		}
		rows = append(rows, row)
	}

	summary := func(label string, values []float64) []string {
		row := []string{StyleBold.Render(label)}
		for _, v := range values {
			row = append(row, StyleBold.Render(km(v)))
		}
		return row
	}
	rows = append(rows, summary(report.TotalLabel, m.Total))
	for _, q := range m.Quarters {
		rows = append(rows, summary(fmt.Sprintf("Q%d", q.Quarter.ID), q.Totals))
	}
	return RenderTable(headers, rows)
}

// FormatRanking renders ranking entries.
func FormatRanking(entries []types.Entry) string {
	if len(entries) == 0 {
		return StyleDim.Render("No active runners.") + "\n"
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(e.Rank), e.DisplayName, km(e.Total)}
	}
	return RenderTable([]string{"#", "Runner", "Km"}, rows)
}

// FormatQuarters renders a quarter partition. Unconfigured quarters show a
// dash.
func FormatQuarters(qs []model.Quarter) string {
	rows := make([][]string, len(qs))
	for i, q := range qs {
		start, end := q.Start, q.End
		if !q.Configured() {
			start, end = StyleDim.Render("-"), StyleDim.Render("-")
		}
		rows[i] = []string{fmt.Sprintf("Q%d", q.ID), start, end}
	}
	return RenderTable([]string{"Quarter", "Start", "End"}, rows)
}

// FormatChecklist renders one day of submission states.
func FormatChecklist(v service.ChecklistView) string {
	rows := make([][]string, len(v.Items))
	for i, it := range v.Items {
		rows[i] = []string{it.DisplayName, StatusText(it.Status)}
	}
	out := RenderTable([]string{"Runner", v.Date}, rows)
	return out + fmt.Sprintf("%d of %d not submitted\n", v.Unreported, len(v.Items))
}
