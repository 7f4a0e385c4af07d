package agentops

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/eliu243/agentops-sdk/internal/event"
	"github.com/eliu243/agentops-sdk/internal/run"
)

// httpPreviewLimit caps request/response previews in a2a_http_call events.
const httpPreviewLimit = 1000

// Transport wraps an http.RoundTripper so every request made within an
// active run emits an a2a_http_call event with method, URL, service name,
// payload previews, status, and duration. Requests with no run on their
// context pass through untouched. With HTTP monitoring disabled the base
// transport is returned as-is.
//
// Response bodies are buffered and replayed so the caller sees them
// unchanged; memory is bounded by response size, as with inbound buffering.
func (c *Client) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if !c.cfg.MonitorHTTP {
		return base
	}
	return &monitoredTransport{client: c, base: base}
}

// HTTPClient returns an *http.Client whose transport is monitored.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{Transport: c.Transport(nil)}
}

type monitoredTransport struct {
	client *Client
	base   http.RoundTripper
}

func (t *monitoredTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	runID := run.CurrentID(req.Context())
	if runID == "" {
		return t.base.RoundTrip(req)
	}

	reqPreview := bufferRequest(req)
	start := time.Now()

	resp, err := t.base.RoundTrip(req)

	ev := event.A2AEvent{
		RunID:       runID,
		Type:        event.TypeHTTPCall,
		Method:      req.Method,
		URL:         req.URL.String(),
		ServiceName: event.ServiceName(req.URL.String()),
		RequestData: reqPreview,
		DurationMs:  durationMs(start),
		CreatedAt:   event.NowMs(),
	}
	if err != nil {
		ev.Error = err.Error()
		t.client.emitter.Emit(ev)
		return nil, err
	}

	ev.StatusCode = resp.StatusCode
	ev.ResponseData = bufferResponse(resp)
	t.client.emitter.Emit(ev)
	return resp, nil
}

// bufferRequest captures a preview of the request body and restores it for
// the underlying transport. Unreadable bodies yield an empty preview.
func bufferRequest(req *http.Request) string {
	if req.Body == nil {
		return ""
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		req.Body = http.NoBody
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	return event.TruncateMarked(string(data), httpPreviewLimit)
}

// bufferResponse captures a preview of the response body and replays it to
// the caller byte-identically.
func bufferResponse(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		resp.Body = http.NoBody
		return ""
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return event.TruncateMarked(string(data), httpPreviewLimit)
}
