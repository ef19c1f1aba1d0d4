// Package report builds the date by runner submission matrix and its
// tabular export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/trackload/internal/domain/load"
	"github.com/okian/trackload/internal/domain/model"
)

// Export labels for the summary rows.
const (
	DateHeader = "Date"
	TotalLabel = "Total"
)

// Column is one runner of the matrix.
type Column struct {
	RunnerID    string `json:"runner_id"`
	DisplayName string `json:"display_name"`
}

// Row is one enumerated date. Cells follow Matrix.Columns.
type Row struct {
	Date  string `json:"date"`
	Cells []Cell `json:"cells"`
}

// QuarterRow holds per-runner subtotals for one quarter.
type QuarterRow struct {
	Quarter model.Quarter `json:"quarter"`
	Totals  []float64     `json:"totals"`
}

// Matrix is the report grid plus its summary rows. Every slice of
// per-runner values is indexed like Columns.
type Matrix struct {
	Columns  []Column     `json:"columns"`
	Rows     []Row        `json:"rows"`
	Total    []float64    `json:"total"`
	Quarters []QuarterRow `json:"quarters"`
}

// BuildMatrix classifies every (date, runner) pair. runners is taken as
// given: callers pass the active roster in display order.
func BuildMatrix(dates []string, runners []model.Runner, logs []model.LogEntry, quarters []model.Quarter) Matrix {
	idx := load.NewIndex(logs)

	m := Matrix{
		Columns:  make([]Column, len(runners)),
		Rows:     make([]Row, len(dates)),
		Total:    make([]float64, len(runners)),
		Quarters: make([]QuarterRow, len(quarters)),
	}
	for j, r := range runners {
		m.Columns[j] = Column{RunnerID: r.ID, DisplayName: r.DisplayName()}
	}

	inRows := make(map[string]struct{}, len(dates))
	for i, d := range dates {
		inRows[d] = struct{}{}
		cells := make([]Cell, len(runners))
		for j, r := range runners {
			cells[j] = classify(idx, r.ID, d)
		}
		m.Rows[i] = Row{Date: d, Cells: cells}
	}

	for j, r := range runners {
		m.Total[j] = load.Sum(logs, r.ID, func(d string) bool {
			_, ok := inRows[d]
			return ok
		})
	}

	for k, q := range quarters {
		totals := make([]float64, len(runners))
		for j, r := range runners {
			totals[j] = load.Quarterly(logs, r.ID, q)
		}
		m.Quarters[k] = QuarterRow{Quarter: q, Totals: totals}
	}
	return m
}

func classify(idx *load.Index, runnerID, date string) Cell {
	switch {
	case !idx.Has(runnerID, date):
		return Cell{Kind: Unreported}
	case idx.IsRest(runnerID, date):
		return Cell{Kind: Rest}
	default:
		return Cell{Kind: Value, Km: idx.DayTotal(runnerID, date)}
	}
}

// Cell returns the cell for date and runnerID.
func (m Matrix) Cell(date, runnerID string) (Cell, bool) {
	col := m.column(runnerID)
	if col < 0 {
		return Cell{}, false
	}
	for _, r := range m.Rows {
		if r.Date == date {
			return r.Cells[col], true
		}
	}
	return Cell{}, false
}

// RunnerTotal returns the grand total for runnerID.
func (m Matrix) RunnerTotal(runnerID string) float64 {
	col := m.column(runnerID)
	if col < 0 {
		return 0
	}
	return m.Total[col]
}

func (m Matrix) column(runnerID string) int {
	for j, c := range m.Columns {
		if c.RunnerID == runnerID {
			return j
		}
	}
	return -1
}

// Records flattens the matrix for export: a header, the dates in order,
// the grand total, then one row per quarter labelled Q1..Q4.
func (m Matrix) Records() [][]string {
	out := make([][]string, 0, len(m.Rows)+len(m.Quarters)+2)

	header := make([]string, 0, len(m.Columns)+1)
	header = append(header, DateHeader)
	for _, c := range m.Columns {
		header = append(header, c.DisplayName)
	}
	out = append(out, header)

	for _, r := range m.Rows {
		rec := make([]string, 0, len(r.Cells)+1)
		rec = append(rec, r.Date)
		for _, c := range r.Cells {
			rec = append(rec, c.String())
		}
		out = append(out, rec)
	}

	out = append(out, numberRecord(TotalLabel, m.Total))
	for _, q := range m.Quarters {
		out = append(out, numberRecord(fmt.Sprintf("Q%d", q.Quarter.ID), q.Totals))
	}
	return out
}

func numberRecord(label string, values []float64) []string {
	rec := make([]string, 0, len(values)+1)
	rec = append(rec, label)
	for _, v := range values {
		rec = append(rec, formatKm(v))
	}
	return rec
}

// WriteCSV writes Records as CSV.
func (m Matrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(m.Records()); err != nil {
		return fmt.Errorf("write report csv: %w", err)
	}
	return nil
}
