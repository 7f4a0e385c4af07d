package agentops

import (
	"context"
	"math"
	"time"

	"github.com/eliu243/agentops-sdk/internal/event"
	"github.com/eliu243/agentops-sdk/internal/policy"
	"github.com/eliu243/agentops-sdk/internal/run"
)

// previewLimit caps payload previews carried in telemetry events.
const previewLimit = 500

// WrapSend returns a SendFunc that evaluates egress policy before calling
// fn. A denied message emits an a2a_guardrail_violation event and, under
// block-on-violation, aborts with a *PolicyViolationError instead of
// performing the call. The underlying call is otherwise performed and timed,
// and an a2a_message_send event is emitted regardless of its outcome.
//
// If no run is bound to ctx, the interception opens a transient run and
// closes it once the interception completes.
func (c *Client) WrapSend(fn SendFunc) SendFunc {
	return func(ctx context.Context, msg Message) (*SendResult, error) {
		verdict := c.evaluate(ctx, msg.Text, policy.Egress, nil)

		var (
			r         *run.Run
			transient bool
		)
		if !verdict.Allowed {
			ctx, r, transient = c.tracker.EnsureStarted(ctx)
			c.emitter.Emit(event.A2AEvent{
				RunID:       r.ID(),
				Type:        event.TypeGuardrailViolation,
				Method:      "EGRESS",
				URL:         msg.URL,
				ServiceName: "guardrail",
				RequestData: event.Truncate(msg.Text, previewLimit),
				Error:       verdict.Summary(),
				CreatedAt:   event.NowMs(),
			})
			if c.cfg.BlockOnViolation {
				if transient {
					c.tracker.End(r, run.StatusCompleted, "")
				}
				return nil, &PolicyViolationError{Direction: DirectionEgress, Verdict: toVerdict(verdict)}
			}
		}

		start := time.Now()
		res, err := fn(ctx, msg)

		ev := event.A2AEvent{
			RunID:       run.CurrentID(ctx),
			Type:        event.TypeMessageSend,
			Method:      "EGRESS",
			URL:         msg.URL,
			ServiceName: "a2a_client",
			RequestData: event.Truncate(msg.Text, previewLimit),
			DurationMs:  durationMs(start),
			CreatedAt:   event.NowMs(),
		}
		if res != nil {
			ev.StatusCode = res.StatusCode
		}
		if err != nil {
			ev.Error = err.Error()
		}
		c.emitter.Emit(ev)

		if transient {
			c.tracker.End(r, run.StatusCompleted, "")
		}
		return res, err
	}
}

// durationMs returns elapsed wall-clock time in milliseconds, rounded to
// two decimals as the collector stores it.
func durationMs(start time.Time) float64 {
	ms := float64(time.Since(start)) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
