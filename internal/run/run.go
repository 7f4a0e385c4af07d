// Package run tracks the lifecycle of a run: one logical execution of an
// agent, from first governed action to explicit or forced end. Run state is
// confined to the execution context that owns it: the handle travels in a
// context.Context, never in process globals.
package run

import (
	"sync"
)

// Status is the run lifecycle state.
type Status string

const (
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusTerminated Status = "terminated"
)

// Run is one logical agent execution. The zero value is not usable; runs
// are created by a Tracker. A run ends exactly once and is never reused.
type Run struct {
	id        string
	project   string
	startedAt int64

	mu     sync.Mutex
	seq    int
	status Status
	reason string
	ended  int64
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Project returns the run's project label.
func (r *Run) Project() string { return r.project }

// StartedAt returns the millisecond epoch start timestamp.
func (r *Run) StartedAt() int64 { return r.startedAt }

// Status returns the current lifecycle state.
func (r *Run) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// EndedAt returns the millisecond epoch end timestamp, or 0 while running.
func (r *Run) EndedAt() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

// TerminationReason returns the reason recorded at forced termination,
// or "" otherwise.
func (r *Run) TerminationReason() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}

// Ended reports whether the run reached a terminal state.
func (r *Run) Ended() bool {
	return r.Status() != StatusRunning
}

// Sequence returns the current sequence counter without advancing it.
func (r *Run) Sequence() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// NextSequence increments and returns the run-scoped counter. An ended run
// is closed to new actions: ok is false and the counter does not move.
func (r *Run) NextSequence() (seq int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRunning {
		return r.seq, false
	}
	r.seq++
	return r.seq, true
}

// end transitions to a terminal state. Returns false if already ended.
func (r *Run) end(status Status, reason string, at int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRunning {
		return false
	}
	r.status = status
	r.reason = reason
	r.ended = at
	return true
}
