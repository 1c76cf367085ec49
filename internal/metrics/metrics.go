package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/rules"
)

// Metrics owns its registry so that every API instance (and every test)
// registers collectors independently.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpInFlight    prometheus.Gauge
	decisions       *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	cleanupDeleted  prometheus.Counter
	cleanupFailures prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petnest_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "petnest_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "petnest_http_in_flight_requests",
				Help: "Number of HTTP requests being served",
			},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petnest_moderation_decisions_total",
				Help: "Moderation decisions by entity kind, decision and outcome",
			},
			[]string{"kind", "decision", "outcome"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petnest_submissions_total",
				Help: "Items submitted for moderation by entity kind",
			},
			[]string{"kind"},
		),
		cleanupDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "petnest_cleanup_images_deleted_total",
				Help: "Images of rejected ad requests removed by the cleanup job",
			},
		),
		cleanupFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "petnest_cleanup_failures_total",
				Help: "Cleanup job image deletions that failed",
			},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.decisions,
		m.submissions,
		m.cleanupDeleted,
		m.cleanupFailures,
	)

	// Applied decisions start at zero so every kind and decision is exported
	// before its first use.
	for _, kind := range enums.EntityKinds() {
		machine, ok := rules.MachineFor(kind)
		if !ok {
			continue
		}
		for _, decision := range machine.Decisions() {
			m.decisions.WithLabelValues(string(kind), string(decision), "applied")
		}
	}
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records one served request. route is the router
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) InFlight(delta float64) {
	if m != nil {
		m.httpInFlight.Add(delta)
	}
}

func (m *Metrics) ObserveDecision(kind enums.EntityKind, decision rules.DecisionKind, outcome string) {
	if m != nil {
		m.decisions.WithLabelValues(string(kind), string(decision), outcome).Inc()
	}
}

func (m *Metrics) ObserveSubmission(kind enums.EntityKind) {
	if m != nil {
		m.submissions.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) CleanupDeleted(n int) {
	if m != nil && n > 0 {
		m.cleanupDeleted.Add(float64(n))
	}
}

func (m *Metrics) CleanupFailed() {
	if m != nil {
		m.cleanupFailures.Inc()
	}
}
