package agentops

import (
	"context"

	"github.com/eliu243/agentops-sdk/internal/event"
)

// promptLimit caps the prompt text carried in llm_call events.
const promptLimit = 8000

// modelPricing maps model name to (input, output) USD per token. Unknown
// models cost zero.
var modelPricing = map[string][2]float64{
	"gpt-4o-mini": {0.150 / 1_000_000, 0.600 / 1_000_000},
}

// WrapModel returns a ModelFunc that counts the invocation against the
// per-run action budget before calling fn and emits an llm_call event with
// token usage and estimated cost afterwards.
//
// Exceeding the budget terminates the run with reason UNBOUNDED_RECURSION
// and returns a *TerminatedError without calling fn. A terminated run stays
// closed: every further invocation on its context fails the same way.
//
// Budget counting is scoped to the run bound to ctx; establish the scope
// with StartRun. An invocation with no run on its context opens one.
func (c *Client) WrapModel(fn ModelFunc) ModelFunc {
	return func(ctx context.Context, req ModelRequest) (*ModelResponse, error) {
		ctx, r, seq, exceeded := c.guard.Enforce(ctx)
		if exceeded {
			return nil, &TerminatedError{RunID: r.ID(), Seq: seq, Max: c.guard.Max()}
		}

		resp, err := fn(ctx, req)
		if err != nil {
			return nil, err
		}

		total := resp.TotalTokens
		if total == 0 {
			total = resp.PromptTokens + resp.CompletionTokens
		}
		c.emitter.Emit(event.LLMCallEvent{
			Type:             event.TypeLLMCall,
			RunID:            r.ID(),
			Seq:              seq,
			Model:            req.Model,
			Prompt:           event.Truncate(req.Prompt, promptLimit),
			Response:         resp.Text,
			PromptTokens:     resp.PromptTokens,
			CompletionTokens: resp.CompletionTokens,
			TotalTokens:      total,
			CostUSD:          estimateCost(req.Model, resp.PromptTokens, resp.CompletionTokens),
			CreatedAt:        event.NowMs(),
		})
		return resp, nil
	}
}

// estimateCost prices a call from the static pricing table.
func estimateCost(model string, promptTokens, completionTokens int) float64 {
	p, ok := modelPricing[model]
	if !ok {
		return 0
	}
	return float64(promptTokens)*p[0] + float64(completionTokens)*p[1]
}
