// Package types contains common types used across the application
package types

// Entry represents a ranking row.
type Entry struct {
	Rank        int     `json:"rank"`
	RunnerID    string  `json:"runner_id"`
	DisplayName string  `json:"display_name"`
	Total       float64 `json:"total_km"`
}
