package event

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestServiceName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://api.stripe.com/v1/charges", "stripe"},
		{"https://api.openai.com/v1/chat/completions", "openai"},
		{"https://www.anthropic.com/claude", "anthropic"},
		{"https://storage.googleapis.com/bucket", "google_apis"},
		{"https://s3.us-east-1.amazonaws.com/obj", "aws"},
		{"http://localhost:8000/v1/events", "internal_localhost"},
		{"http://127.0.0.1:9000/x", "internal_127.0.0.1"},
		{"https://billing.internal.corp/x", "internal_billing.internal.corp"},
		{"https://api.example.com/path", "example"},
		{"https://sub.domain.org/x", "sub"},
		{"://not a url", "unknown_service"},
		{"", "unknown_service"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := ServiceName(tt.url); got != tt.want {
				t.Errorf("ServiceName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestTruncateMarked(t *testing.T) {
	if got := TruncateMarked("short", 10); got != "short" {
		t.Errorf("short string changed: %q", got)
	}
	got := TruncateMarked(strings.Repeat("a", 20), 5)
	if got != "aaaaa...[truncated]" {
		t.Errorf("TruncateMarked = %q", got)
	}
}

func TestHTTPEmitterRouting(t *testing.T) {
	var mu sync.Mutex
	paths := map[string]int{}
	var lastAuth string
	var lastBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		paths[r.URL.Path]++
		lastAuth = r.Header.Get("Authorization")
		lastBody = nil
		json.NewDecoder(r.Body).Decode(&lastBody)
	}))
	defer srv.Close()

	em := NewHTTPEmitter(srv.URL+"/", "test-key")

	em.Emit(RunEvent{Type: TypeRunStarted, RunID: "r1", Project: "p"})
	mu.Lock()
	if paths["/v1/events"] != 1 {
		t.Errorf("run event path counts = %v", paths)
	}
	if lastAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", lastAuth)
	}
	if lastBody["type"] != "run_started" || lastBody["run_id"] != "r1" {
		t.Errorf("body = %v", lastBody)
	}
	mu.Unlock()

	em.Emit(A2AEvent{Type: TypeMessageSend, RunID: "r1", Method: "EGRESS"})
	mu.Lock()
	if paths["/v1/a2a-events"] != 1 {
		t.Errorf("a2a event path counts = %v", paths)
	}
	mu.Unlock()

	em.Emit(LLMCallEvent{Type: TypeLLMCall, RunID: "r1", Model: "gpt-4o-mini"})
	mu.Lock()
	if paths["/v1/events"] != 2 {
		t.Errorf("llm event path counts = %v", paths)
	}
	mu.Unlock()
}

func TestHTTPEmitterNoAuthWithoutKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	NewHTTPEmitter(srv.URL, "").Emit(RunEvent{Type: TypeRunStarted, RunID: "r"})
	if auth != "" {
		t.Errorf("unexpected auth header %q", auth)
	}
}

func TestHTTPEmitterSwallowsFailures(t *testing.T) {
	// Collector down: Emit must return without error or panic.
	em := NewHTTPEmitter("http://127.0.0.1:1", "")
	em.Emit(RunEvent{Type: TypeRunStarted, RunID: "r"})

	// Collector erroring: same.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	NewHTTPEmitter(srv.URL, "").Emit(RunEvent{Type: TypeRunCompleted, RunID: "r"})
}

func TestMultiEmitter(t *testing.T) {
	var got []string
	fn := func(tag string) Emitter {
		return emitterFunc(func(e Event) { got = append(got, tag+":"+e.EventType()) })
	}
	m := MultiEmitter{fn("a"), fn("b")}
	m.Emit(RunEvent{Type: TypeRunStarted})

	if len(got) != 2 || got[0] != "a:run_started" || got[1] != "b:run_started" {
		t.Errorf("fan-out order = %v", got)
	}
}

type emitterFunc func(Event)

func (f emitterFunc) Emit(e Event) { f(e) }
