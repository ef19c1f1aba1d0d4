// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// CategoryRest marks a deliberate zero-training day. Any entry carrying it
// turns the whole day into a rest day.
const CategoryRest = "complete_rest"

// LogEntry is one submitted training record.
// Several entries may share (RunnerID, Date); they are summed, never overwritten.
type LogEntry struct {
	ID         string    `json:"id"`
	RunnerID   string    `json:"runner_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	DistanceKm Distance  `json:"distance_km"`
	Category   string    `json:"category"`
	RPE        int       `json:"rpe,omitempty"`
	PainLevel  int       `json:"pain_level,omitempty"`
	Memo       string    `json:"memo,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsRest reports whether the entry carries the rest category.
func (e LogEntry) IsRest() bool {
	return strings.EqualFold(strings.TrimSpace(e.Category), CategoryRest)
}

// Op is the kind of change a Submission carries.
type Op string

// Submission operations. OpPut creates an entry, or edits it when it
// already exists. OpEdit only changes an existing entry and never creates
// one, so an edit applied after a delete of the same entry is dropped.
const (
	OpPut    Op = "put"
	OpEdit   Op = "edit"
	OpDelete Op = "delete"
)

// Submission is a log change travelling from the API to the store through
// the queue. Key is the client idempotency key.
type Submission struct {
	Key        string
	Op         Op
	Entry      LogEntry
	ReceivedAt time.Time
}
