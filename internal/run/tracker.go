package run

import (
	"context"

	"github.com/google/uuid"

	"github.com/eliu243/agentops-sdk/internal/event"
)

// contextKey is the private key type for run handles in a context.
type contextKey struct{}

// FromContext returns the run bound to ctx, or nil.
func FromContext(ctx context.Context) *Run {
	r, _ := ctx.Value(contextKey{}).(*Run)
	return r
}

// CurrentID returns the id of the run bound to ctx, or "".
func CurrentID(ctx context.Context) string {
	if r := FromContext(ctx); r != nil {
		return r.id
	}
	return ""
}

// Tracker creates and ends runs, emitting lifecycle events. It is a
// process-wide, config-only service; all mutable state lives in the Run
// handles it hands out, each confined to one execution context.
type Tracker struct {
	project string
	emitter event.Emitter
}

// NewTracker creates a tracker with the default project label.
func NewTracker(project string, emitter event.Emitter) *Tracker {
	if project == "" {
		project = "default"
	}
	if emitter == nil {
		emitter = event.NopEmitter{}
	}
	return &Tracker{project: project, emitter: emitter}
}

// Start opens a fresh run bound to the returned context and emits
// run_started. project "" uses the tracker default. Concurrent contexts
// each get independent runs.
func (t *Tracker) Start(ctx context.Context, project string) (context.Context, *Run) {
	if project == "" {
		project = t.project
	}
	r := &Run{
		id:        uuid.NewString(),
		project:   project,
		startedAt: event.NowMs(),
		status:    StatusRunning,
	}
	t.emitter.Emit(event.RunEvent{
		Type:      event.TypeRunStarted,
		RunID:     r.id,
		Project:   r.project,
		StartedAt: r.startedAt,
	})
	return context.WithValue(ctx, contextKey{}, r), r
}

// EnsureStarted returns the run already bound to ctx, or starts a new one.
// started reports whether this call opened the run; the caller that opened
// a run this way owns closing it (transient-run contract).
func (t *Tracker) EnsureStarted(ctx context.Context) (_ context.Context, r *Run, started bool) {
	if r = FromContext(ctx); r != nil {
		return ctx, r, false
	}
	ctx, r = t.Start(ctx, "")
	return ctx, r, true
}

// End moves the run to a terminal state and emits run_completed or
// run_terminated. Ending an already-ended run is a no-op and emits nothing.
func (t *Tracker) End(r *Run, status Status, reason string) {
	if r == nil {
		return
	}
	now := event.NowMs()
	if !r.end(status, reason, now) {
		return
	}
	switch status {
	case StatusTerminated:
		t.emitter.Emit(event.RunEvent{
			Type:         event.TypeRunTerminated,
			RunID:        r.id,
			Reason:       reason,
			TerminatedAt: now,
		})
	default:
		t.emitter.Emit(event.RunEvent{
			Type:    event.TypeRunCompleted,
			RunID:   r.id,
			EndedAt: now,
		})
	}
}
