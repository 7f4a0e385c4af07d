// Package metrics exposes Prometheus counters for the governance pipeline:
// policy evaluations, guardrail violations, and emitted telemetry events.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eliu243/agentops-sdk/internal/event"
)

// Metrics holds the pipeline collectors. Each Metrics owns its registry so
// independent SDK clients never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	evaluations *prometheus.CounterVec
	violations  *prometheus.CounterVec
	events      *prometheus.CounterVec
}

// New creates a Metrics with a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentops_policy_evaluations_total",
				Help: "Total number of policy evaluations performed",
			},
			[]string{"direction", "result"},
		),
		violations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentops_guardrail_violations_total",
				Help: "Total number of policy violations detected",
			},
			[]string{"direction"},
		),
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentops_events_emitted_total",
				Help: "Total number of telemetry events handed to the emitter",
			},
			[]string{"type"},
		),
	}
}

// ObserveEvaluation records one policy evaluation outcome.
func (m *Metrics) ObserveEvaluation(direction string, allowed bool) {
	result := "allowed"
	if !allowed {
		result = "denied"
		m.violations.WithLabelValues(direction).Inc()
	}
	m.evaluations.WithLabelValues(direction, result).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WrapEmitter returns an emitter that counts events by type before
// delegating to next.
func (m *Metrics) WrapEmitter(next event.Emitter) event.Emitter {
	return countingEmitter{metrics: m, next: next}
}

type countingEmitter struct {
	metrics *Metrics
	next    event.Emitter
}

func (c countingEmitter) Emit(e event.Event) {
	c.metrics.events.WithLabelValues(e.EventType()).Inc()
	c.next.Emit(e)
}
