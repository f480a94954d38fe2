// Package metrics exposes Prometheus instruments for imports, the stored
// roster, remote service calls and HTTP traffic. A nil *Metrics is valid and
// records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rosterai"

// Import outcomes.
const (
	ImportSucceeded = "success"
	ImportParseErr  = "parse_error"
	ImportStoreErr  = "persistence_error"
	ImportRejected  = "in_progress"
)

type Metrics struct {
	registry *prometheus.Registry

	imports        *prometheus.CounterVec
	rosterPlayers  *prometheus.GaugeVec
	remoteRequests *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	breakerState   *prometheus.GaugeVec
	staleResponses *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	eventClients   prometheus.Gauge
}

// New creates the instruments on a private registry, plus Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Roster imports by outcome.",
		}, []string{"result"}),
		rosterPlayers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_players",
			Help:      "Players in the stored roster by group.",
		}, []string{"group"}),
		remoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_requests_total",
			Help:      "Calls to remote recommendation services by service and result.",
		}, []string{"service", "result"}),
		remoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_request_duration_seconds",
			Help:      "Remote service call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open).",
		}, []string{"service"}),
		staleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Remote responses discarded because the roster changed mid-request.",
		}, []string{"service"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		eventClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_clients",
			Help:      "Connected roster event WebSocket clients.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.imports,
		m.rosterPlayers,
		m.remoteRequests,
		m.remoteDuration,
		m.breakerState,
		m.staleResponses,
		m.httpRequests,
		m.httpDuration,
		m.eventClients,
	)

	return m
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Import(result string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(result).Inc()
}

func (m *Metrics) SetRosterSize(active, bench int) {
	if m == nil {
		return
	}
	m.rosterPlayers.WithLabelValues("active").Set(float64(active))
	m.rosterPlayers.WithLabelValues("bench").Set(float64(bench))
}

func (m *Metrics) RemoteRequest(service string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.remoteRequests.WithLabelValues(service, result).Inc()
	m.remoteDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RemoteRejected counts a call the circuit breaker refused.
func (m *Metrics) RemoteRejected(service string) {
	if m == nil {
		return
	}
	m.remoteRequests.WithLabelValues(service, "rejected").Inc()
}

func (m *Metrics) SetCircuitBreakerState(service string, state float64) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(service).Set(state)
}

func (m *Metrics) StaleResponse(service string) {
	if m == nil {
		return
	}
	m.staleResponses.WithLabelValues(service).Inc()
}

func (m *Metrics) EventClientConnected() {
	if m == nil {
		return
	}
	m.eventClients.Inc()
}

func (m *Metrics) EventClientDisconnected() {
	if m == nil {
		return
	}
	m.eventClients.Dec()
}

// ObserveHTTP records one completed request.
func (m *Metrics) ObserveHTTP(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}
