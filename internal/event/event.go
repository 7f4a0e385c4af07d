// Package event defines the telemetry records posted to the agentops
// collector and the best-effort emitters that deliver them. Emission is
// fire-and-forget: a failed delivery is discarded, never retried, and never
// surfaces to the governed call path.
package event

import (
	"net/url"
	"strings"
	"time"
)

// Lifecycle and LLM-call event types, posted to /v1/events.
const (
	TypeRunStarted    = "run_started"
	TypeRunCompleted  = "run_completed"
	TypeRunTerminated = "run_terminated"
	TypeLLMCall       = "llm_call"
)

// A2A event types, posted to /v1/a2a-events.
const (
	TypeMessageSend        = "a2a_message_send"
	TypeMessageReceive     = "a2a_message_receive"
	TypeHTTPCall           = "a2a_http_call"
	TypeGuardrailViolation = "a2a_guardrail_violation"
)

// Event is any record the collector accepts. Type routes the record to the
// right collector sub-resource.
type Event interface {
	EventType() string
}

// RunEvent records a run lifecycle transition.
type RunEvent struct {
	Type         string `json:"type"`
	RunID        string `json:"run_id"`
	Project      string `json:"project,omitempty"`
	StartedAt    int64  `json:"started_at,omitempty"`
	EndedAt      int64  `json:"ended_at,omitempty"`
	TerminatedAt int64  `json:"terminated_at,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

func (e RunEvent) EventType() string { return e.Type }

// LLMCallEvent records one governed model invocation.
type LLMCallEvent struct {
	Type             string  `json:"type"`
	RunID            string  `json:"run_id"`
	Seq              int     `json:"seq,omitempty"`
	Model            string  `json:"model"`
	Prompt           string  `json:"prompt"`
	Response         string  `json:"response"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostUSD          float64 `json:"cost_usd"`
	CreatedAt        int64   `json:"created_at,omitempty"`
}

func (e LLMCallEvent) EventType() string { return e.Type }

// A2AEvent records one agent-to-agent boundary crossing: a message send or
// receive, a monitored HTTP call, or a guardrail violation.
type A2AEvent struct {
	RunID        string  `json:"run_id"`
	Type         string  `json:"type"`
	Method       string  `json:"method"`
	URL          string  `json:"url"`
	ServiceName  string  `json:"service_name"`
	RequestData  string  `json:"request_data,omitempty"`
	ResponseData string  `json:"response_data,omitempty"`
	StatusCode   int     `json:"status_code,omitempty"`
	DurationMs   float64 `json:"duration_ms"`
	Error        string  `json:"error,omitempty"`
	CreatedAt    int64   `json:"created_at"`
}

func (e A2AEvent) EventType() string { return e.Type }

// NowMs returns the current time as a millisecond epoch timestamp, the
// timestamp unit the collector stores.
func NowMs() int64 {
	return time.Now().UnixMilli()
}

// Truncate caps s at max bytes. Used for payload previews in events.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// TruncateMarked caps s at max bytes and appends a truncation marker when
// anything was cut. Used for HTTP request/response previews.
func TruncateMarked(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...[truncated]"
}

// ServiceName derives a short service label from a URL for telemetry.
// Well-known providers map to fixed names; local addresses are prefixed
// internal_; anything else falls back to the first domain label.
func ServiceName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown_service"
	}

	domain := strings.ToLower(parsed.Hostname())
	domain = strings.TrimPrefix(domain, "www.")
	domain = strings.TrimPrefix(domain, "api.")

	switch {
	case strings.Contains(domain, "stripe.com"):
		return "stripe"
	case strings.Contains(domain, "openai.com"):
		return "openai"
	case strings.Contains(domain, "anthropic.com"):
		return "anthropic"
	case strings.Contains(domain, "googleapis.com"):
		return "google_apis"
	case strings.Contains(domain, "amazonaws.com"):
		return "aws"
	case strings.Contains(domain, "internal"), strings.Contains(domain, "localhost"), domain == "127.0.0.1", domain == "::1":
		return "internal_" + domain
	}

	if idx := strings.IndexByte(domain, '.'); idx > 0 {
		return domain[:idx]
	}
	if domain == "" {
		return "unknown_service"
	}
	return domain
}
