package agentops

import (
	"context"
	"fmt"

	"github.com/eliu243/agentops-sdk/internal/classify"
	"github.com/eliu243/agentops-sdk/internal/policy"
)

// Directions of a governed message relative to the local process.
const (
	DirectionEgress  = policy.Egress
	DirectionIngress = policy.Ingress
)

// Verdict is the allow/deny outcome of one policy evaluation.
type Verdict struct {
	Allowed bool
	Label   string
	Reason  string
	Matches []string
}

// Message describes one outbound agent-to-agent message.
type Message struct {
	To   string // target agent identifier
	Text string // message content evaluated against policy
	URL  string // destination endpoint, recorded in telemetry
}

// SendResult is what a wrapped send returns. StatusCode feeds the
// message_send telemetry event; Data is passed through untouched.
type SendResult struct {
	StatusCode int
	Data       any
}

// SendFunc is the outbound call shape that WrapSend guards.
type SendFunc func(ctx context.Context, msg Message) (*SendResult, error)

// ModelRequest describes one governed model invocation.
type ModelRequest struct {
	Model  string
	Prompt string
}

// ModelResponse carries the model output and token usage for telemetry.
type ModelResponse struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ModelFunc is the model call shape that WrapModel guards.
type ModelFunc func(ctx context.Context, req ModelRequest) (*ModelResponse, error)

// Classification is the structured result of one semantic policy check.
type Classification struct {
	HasViolation  bool
	ViolationType string
	Severity      string // low | medium | high | critical
	Explanation   string
	Confidence    float64
}

// Classifier is the pluggable semantic-policy capability. A failing
// classifier never blocks traffic; its errors degrade to an allowed
// llm_skipped verdict.
type Classifier interface {
	Classify(ctx context.Context, text, direction string) (Classification, error)
}

// PolicyViolationError is returned when an egress call is blocked under
// block-on-violation. The inbound equivalent is a 403 response, not an error.
type PolicyViolationError struct {
	Direction string
	Verdict   Verdict
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("agentops: %s blocked by policy: %s", e.Direction, e.Verdict.Reason)
}

// TerminatedError is returned when the per-run action budget is exceeded.
// The run has transitioned to terminated and must not be resumed.
type TerminatedError struct {
	RunID string
	Seq   int
	Max   int
}

func (e *TerminatedError) Error() string {
	return fmt.Sprintf("agentops: unbounded recursion: max LLM calls exceeded (call %d, budget %d)", e.Seq, e.Max)
}

// toVerdict maps an internal policy verdict to the SDK type.
func toVerdict(v policy.Verdict) Verdict {
	return Verdict{
		Allowed: v.Allowed,
		Label:   v.Label,
		Reason:  v.Reason,
		Matches: v.Matches,
	}
}

// classifierAdapter bridges an SDK Classifier into the internal capability
// contract.
type classifierAdapter struct {
	impl Classifier
}

func (a classifierAdapter) Classify(ctx context.Context, text, direction string) (classify.Classification, error) {
	c, err := a.impl.Classify(ctx, text, direction)
	if err != nil {
		return classify.Classification{}, err
	}
	return classify.Classification{
		HasViolation:  c.HasViolation,
		ViolationType: c.ViolationType,
		Severity:      c.Severity,
		Explanation:   c.Explanation,
		Confidence:    c.Confidence,
	}, nil
}
