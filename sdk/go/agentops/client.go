package agentops

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/eliu243/agentops-sdk/internal/budget"
	"github.com/eliu243/agentops-sdk/internal/classify"
	"github.com/eliu243/agentops-sdk/internal/config"
	"github.com/eliu243/agentops-sdk/internal/denylist"
	"github.com/eliu243/agentops-sdk/internal/event"
	"github.com/eliu243/agentops-sdk/internal/metrics"
	"github.com/eliu243/agentops-sdk/internal/policy"
	"github.com/eliu243/agentops-sdk/internal/run"
)

// defaultClassifierURL is used when the semantic stage is enabled without an
// explicit endpoint.
const defaultClassifierURL = "https://api.openai.com/v1/chat/completions"

// envClassifierKey supplies the classifier auth token when none is
// configured.
const envClassifierKey = "OPENAI_API_KEY"

// Client holds the governance pipeline: policy evaluator, run tracker,
// budget guard, and event emitter. Safe for concurrent use; per-run state
// lives in the context of each governed execution, never in the Client.
type Client struct {
	cfg       config.Config
	dl        *denylist.Denylist
	evaluator *policy.Evaluator
	tracker   *run.Tracker
	guard     *budget.Guard
	emitter   event.Emitter
	metrics   *metrics.Metrics
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	var s settings
	for _, o := range opts {
		o(&s)
	}

	cfg, err := config.Load(s.configFile)
	if err != nil {
		return nil, fmt.Errorf("agentops: failed to load config: %w", err)
	}
	for _, m := range s.mutators {
		m(&cfg)
	}
	cfg.Normalize()

	dl, err := denylist.Load(cfg.DenylistPath)
	if err != nil {
		return nil, fmt.Errorf("agentops: failed to load denylist: %w", err)
	}

	var classifier classify.Classifier
	if cfg.EnableLLMPolicy {
		if s.classifier != nil {
			classifier = classifierAdapter{impl: s.classifier}
		} else {
			apiURL := cfg.ClassifierURL
			if apiURL == "" {
				apiURL = defaultClassifierURL
			}
			apiKey := cfg.ClassifierAPIKey
			if apiKey == "" {
				apiKey = os.Getenv(envClassifierKey)
			}
			classifier = classify.NewHTTPClassifier(classify.Config{
				APIURL: apiURL,
				APIKey: apiKey,
				Model:  cfg.LLMPolicyModel,
			})
		}
	}

	m := metrics.New()

	emitter := s.emitter
	if emitter == nil {
		emitter = event.NewHTTPEmitter(cfg.ServerURL, cfg.APIKey)
	}
	if s.logEvents {
		emitter = event.MultiEmitter{emitter, event.LogEmitter{}}
	}
	emitter = m.WrapEmitter(emitter)

	tracker := run.NewTracker(cfg.Project, emitter)

	return &Client{
		cfg: cfg,
		dl:  dl,
		evaluator: policy.NewEvaluator(dl, policy.Config{
			Classifier:           classifier,
			Semantic:             cfg.EnableLLMPolicy,
			SemanticAfterKeyword: cfg.LLMPolicyAfterKeyword,
		}),
		tracker: tracker,
		guard:   budget.NewGuard(tracker, cfg.MaxLLMCalls),
		emitter: emitter,
		metrics: m,
	}, nil
}

// Check evaluates text flowing in the given direction without governing any
// call. extra adds per-call forbidden substrings on top of the configured
// ones.
func (c *Client) Check(ctx context.Context, text, direction string, extra ...string) Verdict {
	v := c.evaluate(ctx, text, direction, extra)
	return toVerdict(v)
}

// evaluate runs the policy evaluator with the configured forbidden
// substrings folded in and records the outcome in metrics.
func (c *Client) evaluate(ctx context.Context, text, direction string, extra []string) policy.Verdict {
	merged := append(append([]string(nil), c.cfg.Forbidden...), extra...)
	v := c.evaluator.Evaluate(ctx, text, direction, merged)
	c.metrics.ObserveEvaluation(direction, v.Allowed)
	return v
}

// StartRun opens an explicit run scope bound to the returned context and
// emits run_started. stop ends the run with run_completed; calling it more
// than once is a no-op.
func (c *Client) StartRun(ctx context.Context, project string) (context.Context, func()) {
	ctx, r := c.tracker.Start(ctx, project)
	return ctx, func() { c.tracker.End(r, run.StatusCompleted, "") }
}

// CurrentRunID returns the id of the run bound to ctx, or "".
func (c *Client) CurrentRunID(ctx context.Context) string {
	return run.CurrentID(ctx)
}

// WatchDenylist hot-reloads the configured denylist file on change. Blocks
// until ctx is cancelled. Requires WithDenylistFile or denylist_path in the
// config file.
func (c *Client) WatchDenylist(ctx context.Context) error {
	if c.cfg.DenylistPath == "" {
		return fmt.Errorf("agentops: no denylist file configured")
	}
	r, err := denylist.NewReloader(c.dl, c.cfg.DenylistPath)
	if err != nil {
		return fmt.Errorf("agentops: failed to watch denylist: %w", err)
	}
	return r.Run(ctx)
}

// MetricsHandler serves this client's pipeline counters in Prometheus
// exposition format.
func (c *Client) MetricsHandler() http.Handler {
	return c.metrics.Handler()
}
