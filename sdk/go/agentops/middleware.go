package agentops

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/eliu243/agentops-sdk/internal/event"
	"github.com/eliu243/agentops-sdk/internal/policy"
	"github.com/eliu243/agentops-sdk/internal/run"
)

// bypassPaths are protocol handshake endpoints (service metadata, health,
// agent-card discovery) that skip interception entirely: no buffering, no
// policy check, no events.
var bypassPaths = map[string]struct{}{
	"/":                           {},
	"/a2a":                        {},
	"/agent.json":                 {},
	"/a2a/agent.json":             {},
	"/.well-known/agent.json":     {},
	"/a2a/.well-known/agent.json": {},
}

// blockedBody is the fixed rejection payload for denied inbound requests.
var blockedBody = []byte(`{"ok": false, "blocked": true}`)

// Middleware returns an http.Handler enforcing ingress policy on A2A
// message bodies. The request body is fully buffered, the JSON "message"
// field is evaluated, and on deny the request is answered with 403
// {"ok": false, "blocked": true} without reaching next. Allowed requests
// reach next with the original body replayed byte-identically.
//
// A request arriving with no run on its context opens a transient run,
// closed after handling completes, win or lose, so unrelated requests
// never share runs.
func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := bypassPaths[r.URL.Path]; skip || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		body := readBody(r)
		text := extractMessage(body)

		ctx, rn, transient := c.tracker.EnsureStarted(r.Context())
		r = r.WithContext(ctx)

		c.emitter.Emit(event.A2AEvent{
			RunID:       rn.ID(),
			Type:        event.TypeMessageReceive,
			Method:      "INGRESS",
			URL:         requestURL(r),
			ServiceName: "a2a_server",
			RequestData: event.Truncate(text, previewLimit),
			CreatedAt:   event.NowMs(),
		})

		verdict := c.evaluate(ctx, text, policy.Ingress, nil)
		if !verdict.Allowed {
			c.emitter.Emit(event.A2AEvent{
				RunID:       rn.ID(),
				Type:        event.TypeGuardrailViolation,
				Method:      "INGRESS",
				URL:         requestURL(r),
				ServiceName: "guardrail",
				RequestData: event.Truncate(text, previewLimit),
				StatusCode:  http.StatusForbidden,
				Error:       verdict.Summary(),
				CreatedAt:   event.NowMs(),
			})

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write(blockedBody)

			if transient {
				c.tracker.End(rn, run.StatusCompleted, "")
			}
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		next.ServeHTTP(w, r)

		if transient {
			c.tracker.End(rn, run.StatusCompleted, "")
		}
	})
}

// readBody buffers the whole request body. Read failures yield an empty
// body, never an error; the request is then governed as an empty message.
func readBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		return nil
	}
	return body
}

// extractMessage pulls the "message" field out of a JSON body. Unparsable
// bodies are treated as empty text, not as errors.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// requestURL reconstructs the request URL for telemetry.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host + r.URL.Path
}
