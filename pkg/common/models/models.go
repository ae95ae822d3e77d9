package models

import "time"

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // sync-requested, sync-completed, sync-failed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// SyncSummary aggregates the outcome of one fetch → map → publish cycle for
// a single entity kind.
type SyncSummary struct {
	RunID       string       `json:"run_id"`
	Kind        string       `json:"kind"` // biobanks, networks, collections
	Fetched     int          `json:"fetched"`
	Mapped      int          `json:"mapped"`
	Skipped     int          `json:"skipped"`
	Published   int          `json:"published"`
	Failed      int          `json:"failed"`
	SkipReasons []SkipReason `json:"skip_reasons,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

// SkipReason records why one source record did not make it into the batch.
type SkipReason struct {
	Identity string `json:"identity"` // source identifier, or "record[i]" when absent
	Reason   string `json:"reason"`
}
