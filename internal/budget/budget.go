// Package budget enforces the per-run action budget: an upper bound on
// budget-counted actions (model invocations) within one run. Exceeding the
// bound terminates the run, the single hard stop in the system, there to
// cut off runaway agent loops.
package budget

import (
	"context"

	"github.com/eliu243/agentops-sdk/internal/run"
)

// DefaultMaxCalls is the per-run action budget when none is configured.
const DefaultMaxCalls = 5

// ReasonUnboundedRecursion is the termination reason recorded when the
// budget is exceeded.
const ReasonUnboundedRecursion = "UNBOUNDED_RECURSION"

// Limit normalizes a configured budget: non-positive means default, and the
// floor is one call.
func Limit(max int) int {
	if max <= 0 {
		return DefaultMaxCalls
	}
	return max
}

// Guard numbers budget-counted actions against the run bound to the calling
// context and terminates the run when the budget is exceeded.
type Guard struct {
	tracker *run.Tracker
	max     int
}

// NewGuard creates a guard with the given per-run budget.
func NewGuard(tracker *run.Tracker, max int) *Guard {
	return &Guard{tracker: tracker, max: Limit(max)}
}

// Max returns the configured per-run budget.
func (g *Guard) Max() int { return g.max }

// Enforce ensures a run exists on ctx and advances its sequence counter.
// If the new sequence exceeds the budget, the run is terminated with reason
// UNBOUNDED_RECURSION (emitting run_terminated exactly once) and exceeded is
// true. A run that already ended is closed to new actions: exceeded is true
// and the counter does not move.
func (g *Guard) Enforce(ctx context.Context) (_ context.Context, r *run.Run, seq int, exceeded bool) {
	ctx, r, _ = g.tracker.EnsureStarted(ctx)

	seq, ok := r.NextSequence()
	if !ok {
		return ctx, r, seq, true
	}
	if seq > g.max {
		g.tracker.End(r, run.StatusTerminated, ReasonUnboundedRecursion)
		return ctx, r, seq, true
	}
	return ctx, r, seq, false
}
