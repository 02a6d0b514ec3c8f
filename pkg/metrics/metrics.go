// Package metrics provides Prometheus metrics for the draft arena service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Game metrics
	gamesStarted   prometheus.Counter
	gamesCompleted prometheus.Counter
	gameDuration   prometheus.Histogram
	activeGames    prometheus.Gauge
	draftsTotal    prometheus.Counter
	bidsTotal      prometheus.Counter

	// Decision provider metrics
	decisionsTotal  *prometheus.CounterVec
	decisionErrors  *prometheus.CounterVec
	decisionLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the metrics namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry sets the Prometheus registerer metrics register against.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithHistogramBuckets overrides the default histogram buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// Global manager on a custom registry so the default Go collectors stay out.
var (
	customRegistry = prometheus.NewRegistry()                 //nolint:gochecknoglobals // singleton metrics registry
	globalManager  = NewManager(WithRegistry(customRegistry)) //nolint:gochecknoglobals // singleton metrics manager
)

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "arena",
		subsystem:        "draft",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := promauto.With(m.registry)

	m.gamesStarted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_started_total",
		Help:      "Number of games started.",
	})
	m.gamesCompleted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_completed_total",
		Help:      "Number of games that reached a terminal result.",
	})
	m.gameDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "game_duration_seconds",
		Help:      "Wall-clock duration of completed games.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
	m.activeGames = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_games",
		Help:      "Number of games currently running.",
	})
	m.draftsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drafts_total",
		Help:      "Number of players drafted across all games.",
	})
	m.bidsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "counter_bids_total",
		Help:      "Number of counter bids placed across all games.",
	})

	m.decisionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "decisions_total",
		Help:      "Decision provider calls by operation.",
	}, []string{"operation"})
	m.decisionErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "decision_errors_total",
		Help:      "Failed decision provider calls by operation.",
	}, []string{"operation"})
	m.decisionLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "decision_latency_seconds",
		Help:      "Decision provider call latency by operation.",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint, method and status code.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the registry backing the global manager, for serving
// via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers against the global manager.

func RecordGameStarted() {
	globalManager.gamesStarted.Inc()
	globalManager.activeGames.Inc()
}

func RecordGameCompleted(d time.Duration) {
	globalManager.gamesCompleted.Inc()
	globalManager.activeGames.Dec()
	globalManager.gameDuration.Observe(d.Seconds())
}

func RecordGameAbandoned() {
	globalManager.activeGames.Dec()
}

func RecordDraft() {
	globalManager.draftsTotal.Inc()
}

func RecordBid() {
	globalManager.bidsTotal.Inc()
}

func RecordDecisionLatency(operation string, d time.Duration) {
	globalManager.decisionsTotal.WithLabelValues(operation).Inc()
	globalManager.decisionLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func RecordDecisionError(operation string) {
	globalManager.decisionErrors.WithLabelValues(operation).Inc()
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, d time.Duration) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(d.Seconds())
}
