// Package metrics exposes Prometheus counters for poll cycles and the admin
// HTTP server. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Event outcomes counted per cycle.
const (
	OutcomePublished     = "published"
	OutcomeSkippedAbsent = "skipped_absent"
	OutcomeSkippedEmpty  = "skipped_empty"
	OutcomeFetchFailed   = "fetch_failed"
	OutcomeMalformed     = "malformed"
	OutcomePublishFailed = "publish_failed"
	OutcomeUnposted      = "unposted"
)

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	lastSuccess   prometheus.Gauge
	events        *prometheus.CounterVec
	recorded      prometheus.Counter
	seenTotal     prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option configures New.
type Option func(*Metrics)

// WithNamespace overrides the metric name prefix.
func WithNamespace(ns string) Option {
	return func(m *Metrics) { m.namespace = ns }
}

// WithRegistry registers collectors on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Metrics) { m.registry = r }
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Metrics) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// New creates the collectors. Options run in order, so WithRegistry must
// precede WithRuntimeCollectors.
func New(opts ...Option) *Metrics {
	m := &Metrics{
		namespace: "dci_recap",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	f := promauto.With(m.registry)

	m.cycles = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "poll",
		Name:      "cycles_total",
		Help:      "Poll cycles by result (ok, error).",
	}, []string{"result"})
	m.cycleDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "poll",
		Name:      "cycle_duration_seconds",
		Help:      "Wall time of a poll cycle.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})
	m.lastSuccess = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "poll",
		Name:      "last_success_unixtime",
		Help:      "Completion time of the last successful cycle.",
	})
	m.events = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "poll",
		Name:      "events_total",
		Help:      "New events handled by outcome.",
	}, []string{"outcome"})
	m.recorded = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "poll",
		Name:      "events_recorded_total",
		Help:      "Events appended to the seen record.",
	})
	m.seenTotal = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "seen",
		Name:      "entries",
		Help:      "Entries in the seen record after the last cycle.",
	})

	m.httpRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Admin HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Admin HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCycle records the end of a cycle.
func (m *Metrics) ObserveCycle(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.cycleDuration.Observe(d.Seconds())
	if err != nil {
		m.cycles.WithLabelValues("error").Inc()
		return
	}
	m.cycles.WithLabelValues("ok").Inc()
	m.lastSuccess.SetToCurrentTime()
}

// EventOutcome counts one new event's outcome.
func (m *Metrics) EventOutcome(outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(outcome).Inc()
}

// Recorded counts events appended to the seen record.
func (m *Metrics) Recorded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.recorded.Add(float64(n))
}

// SeenEntries sets the size of the seen record.
func (m *Metrics) SeenEntries(n int) {
	if m == nil {
		return
	}
	m.seenTotal.Set(float64(n))
}

// ObserveHTTP records one admin request.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
