package agentops

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eliu243/agentops-sdk/internal/event"
)

func TestTransportPassthroughWithoutRun(t *testing.T) {
	c, ce := newTestClient(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	resp, err := c.HTTPClient().Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if got := ce.types(); len(got) != 0 {
		t.Errorf("request without a run must emit nothing, got %v", got)
	}
}

func TestTransportEmitsHTTPCall(t *testing.T) {
	c, ce := newTestClient(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 7}`)
	}))
	defer srv.Close()

	ctx, stop := c.StartRun(context.Background(), "")
	defer stop()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL+"/charges", strings.NewReader(`{"amount": 100}`))
	resp, err := c.HTTPClient().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	// Caller sees the response unchanged.
	if string(body) != `{"id": 7}` {
		t.Errorf("body = %q", body)
	}

	events := ce.byType(event.TypeHTTPCall)
	if len(events) != 1 {
		t.Fatalf("http_call events = %d, want 1", len(events))
	}
	ev := events[0].(event.A2AEvent)
	if ev.Method != http.MethodPost || ev.StatusCode != http.StatusCreated {
		t.Errorf("event = %+v", ev)
	}
	if ev.RequestData != `{"amount": 100}` {
		t.Errorf("request preview = %q", ev.RequestData)
	}
	if ev.ResponseData != `{"id": 7}` {
		t.Errorf("response preview = %q", ev.ResponseData)
	}
	if ev.RunID != c.CurrentRunID(ctx) {
		t.Error("event must carry the bound run id")
	}
	if !strings.HasPrefix(ev.ServiceName, "internal_") {
		t.Errorf("service name = %q", ev.ServiceName)
	}
}

func TestTransportEmitsOnTransportError(t *testing.T) {
	c, ce := newTestClient(t)

	ctx, stop := c.StartRun(context.Background(), "")
	defer stop()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:1/x", nil)
	if _, err := c.HTTPClient().Do(req); err == nil {
		t.Fatal("expected transport error")
	}

	events := ce.byType(event.TypeHTTPCall)
	if len(events) != 1 {
		t.Fatalf("http_call events = %d, want 1", len(events))
	}
	ev := events[0].(event.A2AEvent)
	if ev.Error == "" || ev.StatusCode != 0 {
		t.Errorf("event = %+v", ev)
	}
}

func TestTransportTruncatesLargeBodies(t *testing.T) {
	c, ce := newTestClient(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("b", 5000))
	}))
	defer srv.Close()

	ctx, stop := c.StartRun(context.Background(), "")
	defer stop()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := c.HTTPClient().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if len(body) != 5000 {
		t.Errorf("caller body truncated: %d bytes", len(body))
	}
	ev := ce.byType(event.TypeHTTPCall)[0].(event.A2AEvent)
	if !strings.HasSuffix(ev.ResponseData, "...[truncated]") {
		t.Error("response preview missing truncation marker")
	}
	if len(ev.ResponseData) != 1000+len("...[truncated]") {
		t.Errorf("preview length = %d", len(ev.ResponseData))
	}
}

func TestTransportDisabledMonitoring(t *testing.T) {
	c, _ := newTestClient(t, WithHTTPMonitoring(false))

	base := http.DefaultTransport
	if got := c.Transport(base); got != base {
		t.Error("disabled monitoring must return the base transport")
	}
}
