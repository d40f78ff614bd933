package model

import (
	"sync/atomic"
	"time"
)

// RunState is the lifecycle state of a batch run.
type RunState string

const (
	// RunStateIdle is a run that has been created but not started.
	RunStateIdle RunState = "idle"
	// RunStateRunning is a run whose worker is processing items.
	RunStateRunning RunState = "running"
	// RunStateCompleted is a run that processed every item.
	RunStateCompleted RunState = "completed"
	// RunStateCancelled is a run stopped by the cancel action between items.
	RunStateCancelled RunState = "cancelled"
	// RunStateFailed is a run aborted by an error.
	RunStateFailed RunState = "failed"
)

// Valid returns true if the RunState is known.
func (s RunState) Valid() bool {
	switch s {
	case RunStateIdle, RunStateRunning, RunStateCompleted, RunStateCancelled, RunStateFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are possible from s.
func (s RunState) Terminal() bool {
	return s == RunStateCompleted || s == RunStateCancelled || s == RunStateFailed
}

// EventKind distinguishes progress events from terminal notifications.
type EventKind string

const (
	EventProgress  EventKind = "progress"
	EventCompleted EventKind = "completed"
	EventCancelled EventKind = "cancelled"
	EventFailed    EventKind = "failed"
)

// Terminal reports whether the event ends the stream.
func (k EventKind) Terminal() bool {
	return k == EventCompleted || k == EventCancelled || k == EventFailed
}

// Event is a message from the worker to the control thread.
// Progress events carry Percent and Processed; a Failed event carries Err.
type Event struct {
	Kind      EventKind
	Percent   int
	Processed int
	Total     int
	Err       error
}

// ProgressPercent returns the integer percentage after processed of total items.
func ProgressPercent(processed, total int) int {
	if total <= 0 {
		return 100
	}
	return processed * 100 / total
}

// Outcome summarises a finished run.
type Outcome struct {
	RunID     string
	State     RunState
	Processed int
	Total     int
	Err       error
}

// CancellationFlag is written by the control thread and polled by the worker.
// The zero value is an unset flag.
type CancellationFlag struct {
	set atomic.Bool
}

// Cancel requests cooperative cancellation. It is safe to call more than once.
func (f *CancellationFlag) Cancel() {
	f.set.Store(true)
}

// IsSet reports whether cancellation was requested.
func (f *CancellationFlag) IsSet() bool {
	return f != nil && f.set.Load()
}

// Run is the persisted history record of one submitted job.
type Run struct {
	ID         string     `json:"id"                    db:"id"`
	SourcePath string     `json:"source_path"           db:"source_path"`
	BadgeSize  float64    `json:"badge_size"            db:"badge_size"`
	Margin     float64    `json:"margin"                db:"margin"`
	MaxPerRow  int        `json:"max_per_row"           db:"max_per_row"`
	Total      int        `json:"total"                 db:"total"`
	Processed  int        `json:"processed"             db:"processed"`
	Status     RunState   `json:"status"                db:"status"`
	LastError  *string    `json:"last_error,omitempty"  db:"last_error"`
	StartedAt  time.Time  `json:"started_at"            db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// CanTransition reports whether a run may move from s to next.
func (s RunState) CanTransition(next RunState) bool {
	switch s {
	case RunStateIdle:
		return next == RunStateRunning
	case RunStateRunning:
		return next.Terminal()
	default:
		return false
	}
}
