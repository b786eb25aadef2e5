package run

import (
	"context"
	"time"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one ingestion sweep: its id window and the per-outcome counters
// aggregated from the typed per-id results.
type Run struct {
	ID              string    `json:"id"`
	Status          Status    `json:"status"`
	RangeLow        int64     `json:"rangeLow"`
	RangeHigh       int64     `json:"rangeHigh"`
	Accepted        int64     `json:"accepted"`
	Duplicate       int64     `json:"duplicate"`
	SkippedNotFound int64     `json:"skippedNotFound"`
	SkippedFiltered int64     `json:"skippedFiltered"`
	SkippedSeen     int64     `json:"skippedSeen"`
	Rejected        int64     `json:"rejected"`
	Errored         int64     `json:"errored"`
	Error           string    `json:"error,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt,omitzero"`
}

type Repository interface {
	Create(ctx context.Context, r *Run) error
	Update(ctx context.Context, r *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
}
