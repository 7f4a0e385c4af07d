// Package policy implements the content policy evaluator for agent-to-agent
// messages: a keyword/regex stage over the denylist, optionally composed
// with the semantic classification stage.
package policy

import (
	"context"
	"strconv"
	"strings"

	"github.com/eliu243/agentops-sdk/internal/classify"
	"github.com/eliu243/agentops-sdk/internal/denylist"
)

// Directions for evaluation, relative to the local process.
const (
	Egress  = "egress"
	Ingress = "ingress"
)

// Verdict is the immutable outcome of one policy evaluation.
type Verdict struct {
	Allowed bool
	Label   string
	Reason  string
	Matches []string
}

// Config selects which stages run and how they compose.
type Config struct {
	// Classifier is the semantic capability. Nil means the semantic stage
	// degrades to an allowed llm_skipped verdict whenever it would run.
	Classifier classify.Classifier
	// Semantic enables the semantic stage.
	Semantic bool
	// SemanticAfterKeyword runs the semantic stage even when the keyword
	// stage already denied, merging both results. The verdict stays denied
	// regardless of the semantic outcome.
	SemanticAfterKeyword bool
}

// Evaluator is a process-wide, config-only service. It holds no per-run
// state and is safe for concurrent use.
type Evaluator struct {
	dl  *denylist.Denylist
	cfg Config
}

// NewEvaluator creates an evaluator over the given denylist.
func NewEvaluator(dl *denylist.Denylist, cfg Config) *Evaluator {
	if dl == nil {
		dl = denylist.NewDefault()
	}
	return &Evaluator{dl: dl, cfg: cfg}
}

// Evaluate checks text flowing in the given direction. extra is a per-call
// list of additional forbidden substrings. Evaluate never fails: classifier
// outages degrade to an allowed llm_skipped verdict.
//
// Composition: a keyword deny with SemanticAfterKeyword enabled still runs
// the semantic stage and merges labels, reasons, and matches with "|" and
// concatenation; the deny is never weakened by a clean semantic result.
// A keyword allow hands authority to the semantic stage when enabled.
func (e *Evaluator) Evaluate(ctx context.Context, text, direction string, extra []string) Verdict {
	basic := e.evaluateKeywords(text, direction, extra)
	if !basic.Allowed {
		if e.cfg.Semantic && e.cfg.SemanticAfterKeyword && text != "" {
			sem := e.analyzeSemantic(ctx, text, direction)
			return Verdict{
				Allowed: false,
				Label:   basic.Label + "|" + sem.Label,
				Reason:  basic.Reason + "|" + sem.Reason,
				Matches: append(append([]string(nil), basic.Matches...), sem.Matches...),
			}
		}
		return basic
	}
	if e.cfg.Semantic && text != "" {
		return e.analyzeSemantic(ctx, text, direction)
	}
	return basic
}

// evaluateKeywords is the pure keyword/regex stage.
func (e *Evaluator) evaluateKeywords(text, direction string, extra []string) Verdict {
	if text == "" {
		return Verdict{Allowed: true, Label: "clean", Reason: "empty_or_none"}
	}
	matches := e.dl.Matches(text, extra)
	if len(matches) > 0 {
		return Verdict{
			Allowed: false,
			Label:   "unauthorized_content",
			Reason:  direction + "_forbidden_content",
			Matches: matches,
		}
	}
	return Verdict{Allowed: true, Label: "clean", Reason: "no_matches"}
}

// analyzeSemantic runs the classifier and maps its outcome to a verdict.
// Any classifier failure yields an allowed llm_skipped verdict carrying the
// failure reason; a classifier outage must never itself block traffic.
func (e *Evaluator) analyzeSemantic(ctx context.Context, text, direction string) Verdict {
	if e.cfg.Classifier == nil {
		return Verdict{
			Allowed: true,
			Label:   "llm_skipped",
			Reason:  direction + "_llm_skipped:missing_classifier",
		}
	}

	c, err := e.cfg.Classifier.Classify(ctx, text, direction)
	if err != nil {
		msg := err.Error()
		if len(msg) > 180 {
			msg = msg[:180]
		}
		return Verdict{
			Allowed: true,
			Label:   "llm_skipped",
			Reason:  direction + "_llm_skipped:error",
			Matches: []string{msg},
		}
	}

	if c.HasViolation {
		return Verdict{
			Allowed: false,
			Label:   "llm_" + c.ViolationType,
			Reason:  direction + "_llm_policy:" + c.Severity + ":" + strconv.FormatFloat(c.Confidence, 'g', -1, 64),
			Matches: []string{c.Explanation},
		}
	}
	return Verdict{Allowed: true, Label: "llm_clean", Reason: "no_violation"}
}

// Summary renders a verdict as the single error string carried by guardrail
// violation events: "<label>:<reason>:<matches>", with the joined match list
// capped at 180 characters.
func (v Verdict) Summary() string {
	joined := strings.Join(v.Matches, ",")
	if len(joined) > 180 {
		joined = joined[:180]
	}
	return v.Label + ":" + v.Reason + ":" + joined
}
