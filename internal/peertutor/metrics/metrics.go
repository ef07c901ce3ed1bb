// Package metrics exposes the site's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth flows counted by AuthOutcomes.
const (
	FlowLogin  = "login"
	FlowSignup = "signup"
	FlowReset  = "reset_password"
)

// OutcomeSuccess is the outcome label of a flow that went through. Failures
// are labelled with the service error code.
const OutcomeSuccess = "success"

type Metrics struct {
	registry *prometheus.Registry

	AuthOutcomes    *prometheus.CounterVec
	RequestsFiled   prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates the metrics on a private registry together with the Go and
// process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		AuthOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peertutor_auth_outcomes_total",
				Help: "Login, signup and password reset attempts by outcome",
			},
			[]string{"flow", "outcome"},
		),
		RequestsFiled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peertutor_help_requests_filed_total",
			Help: "Help requests created through the learn form",
		}),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "peertutor_http_request_duration_seconds",
				Help:    "HTTP request latency by route pattern and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	registry.MustRegister(m.AuthOutcomes, m.RequestsFiled, m.RequestDuration)
	return m
}

// Registry exposes the registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) RecordAuth(flow, outcome string) {
	m.AuthOutcomes.WithLabelValues(flow, outcome).Inc()
}

// Middleware observes request latency. The route label is the ServeMux
// pattern that matched, so ids in paths do not blow up cardinality. It has
// to wrap the ServeMux directly since the mux records the pattern on the
// request value it is handed.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }
