package event

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// emitTimeout bounds one delivery attempt. The collector is best-effort;
// a slow sink must not stall the governed call for long.
const emitTimeout = 3 * time.Second

// Emitter delivers events to a sink. Implementations must be safe for
// concurrent use and must never panic or block indefinitely.
type Emitter interface {
	Emit(e Event)
}

// HTTPEmitter posts events to an agentops collector. Events whose type
// starts with "a2a_" go to /v1/a2a-events, everything else to /v1/events.
// One attempt per event, no retry, no queue; failures are discarded.
type HTTPEmitter struct {
	serverURL string
	apiKey    string
	client    *http.Client
}

// NewHTTPEmitter creates an emitter for the given collector base URL.
// A trailing slash on serverURL is tolerated. apiKey may be empty.
func NewHTTPEmitter(serverURL, apiKey string) *HTTPEmitter {
	return &HTTPEmitter{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		client:    &http.Client{Timeout: emitTimeout},
	}
}

// Emit posts the event. Serialization and transport failures are dropped.
func (h *HTTPEmitter) Emit(e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		return
	}

	url := h.serverURL + "/v1/events"
	if strings.HasPrefix(e.EventType(), "a2a_") {
		url = h.serverURL + "/v1/a2a-events"
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}

// LogEmitter writes events to the process log. Useful for local development
// when no collector is running.
type LogEmitter struct{}

// Emit logs the serialized event.
func (LogEmitter) Emit(e Event) {
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	log.Printf("agentops event: %s", b)
}

// MultiEmitter fans an event out to several emitters in order.
type MultiEmitter []Emitter

// Emit delivers the event to every wrapped emitter.
func (m MultiEmitter) Emit(e Event) {
	for _, em := range m {
		em.Emit(e)
	}
}

// NopEmitter discards every event.
type NopEmitter struct{}

// Emit does nothing.
func (NopEmitter) Emit(Event) {}
