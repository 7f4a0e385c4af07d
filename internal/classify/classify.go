// Package classify implements the semantic policy stage: an external
// LLM-backed capability that judges a message for policy violations. The
// capability is pluggable; the default implementation talks to any
// OpenAI-compatible chat completions endpoint.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultModel is used when no classifier model is configured.
const DefaultModel = "gpt-4o-mini"

// DefaultTimeout bounds one classification call. A slow classifier degrades
// to the skipped path, it does not stall the governed message.
const DefaultTimeout = 10 * time.Second

const systemPrompt = "You are a content moderation system. Respond only with valid JSON."

// Classification is the structured result of one semantic check.
type Classification struct {
	HasViolation  bool    `json:"has_violation"`
	ViolationType string  `json:"violation_type"`
	Severity      string  `json:"severity"` // low | medium | high | critical
	Explanation   string  `json:"explanation"`
	Confidence    float64 `json:"confidence"`
}

// Classifier judges a message for policy violations. Implementations may
// fail; the policy evaluator treats any error as a skipped check, never as
// a block.
type Classifier interface {
	Classify(ctx context.Context, text, direction string) (Classification, error)
}

// Config holds parameters for the HTTP classifier.
type Config struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPClassifier calls an OpenAI-compatible chat completions endpoint and
// parses the JSON verdict out of the first choice.
type HTTPClassifier struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClassifier creates a classifier with defaults applied.
func NewHTTPClassifier(cfg Config) *HTTPClassifier {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &HTTPClassifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Classify sends the message for moderation and returns the parsed verdict.
func (c *HTTPClassifier) Classify(ctx context.Context, text, direction string) (Classification, error) {
	prompt := fmt.Sprintf(
		"Analyze this agent message for policy violations and respond with JSON only.\n\n"+
			"DIRECTION: %s\nMESSAGE: %s\n\n"+
			`Fields: {"has_violation": bool, "violation_type": str|null, "severity": "low|medium|high|critical"|null, "explanation": str, "confidence": number}`,
		direction, text,
	)

	body, _ := json.Marshal(map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature":     0.1,
		"max_tokens":      250,
		"response_format": map[string]string{"type": "json_object"},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return Classification{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("classify request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Classification{}, fmt.Errorf("classify HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Choices) == 0 {
		return Classification{}, fmt.Errorf("empty classify response")
	}

	return parseClassification(result.Choices[0].Message.Content)
}

// parseClassification extracts the verdict from the model's JSON reply,
// tolerating markdown fences some models wrap around it.
func parseClassification(raw string) (Classification, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var c Classification
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Classification{}, fmt.Errorf("parse classification: %w", err)
	}
	if c.HasViolation {
		if c.ViolationType == "" {
			c.ViolationType = "llm_violation"
		}
		if c.Severity == "" {
			c.Severity = "medium"
		}
	}
	return c, nil
}
