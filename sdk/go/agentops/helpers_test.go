package agentops

import (
	"sync"
	"testing"

	"github.com/eliu243/agentops-sdk/internal/event"
)

// captureEmitter records emitted events for inspection in tests.
type captureEmitter struct {
	mu     sync.Mutex
	events []event.Event
}

func (c *captureEmitter) Emit(e event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureEmitter) all() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]event.Event(nil), c.events...)
}

func (c *captureEmitter) types() []string {
	var out []string
	for _, e := range c.all() {
		out = append(out, e.EventType())
	}
	return out
}

func (c *captureEmitter) byType(typ string) []event.Event {
	var out []event.Event
	for _, e := range c.all() {
		if e.EventType() == typ {
			out = append(out, e)
		}
	}
	return out
}

// newTestClient builds a client with the capture emitter installed.
func newTestClient(t *testing.T, opts ...Option) (*Client, *captureEmitter) {
	t.Helper()
	ce := &captureEmitter{}
	c, err := New(append([]Option{withEmitter(ce)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, ce
}
