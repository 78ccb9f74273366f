package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Derivation metrics
	Derivations    *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	VisibleNodes   prometheus.Histogram

	// Chat metrics
	ChatTurns     *prometheus.CounterVec
	ModelDuration prometheus.Histogram

	// Query bus metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Dataset metrics
	DatasetRevision prometheus.Gauge
	DatasetReloads  *prometheus.CounterVec
}

// NewCollector creates a collector backed by its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Derivations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "view_derivations_total",
				Help:      "Total number of derived views by outcome",
			},
			[]string{"status"},
		),
		LayoutDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "layout_duration_seconds",
				Help:      "Layout engine duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"algorithm"},
		),
		VisibleNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "view_visible_nodes",
				Help:      "Number of visible nodes per derived view",
				Buckets:   prometheus.LinearBuckets(0, 10, 12),
			},
		),
		ChatTurns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chat_turns_total",
				Help:      "Total number of chat turns by outcome",
			},
			[]string{"status"},
		),
		ModelDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_request_duration_seconds",
				Help:      "Generative model request duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Query and command bus operations by type and outcome",
			},
			[]string{"metric", "type"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Query and command bus operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"metric", "type"},
		),
		DatasetRevision: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_revision",
				Help:      "Revision of the active tech tree snapshot",
			},
		),
		DatasetReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_reloads_total",
				Help:      "Dataset reload attempts by outcome",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Derivations,
		c.LayoutDuration,
		c.VisibleNodes,
		c.ChatTurns,
		c.ModelDuration,
		c.Operations,
		c.OperationDuration,
		c.DatasetRevision,
		c.DatasetReloads,
	)

	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDerivation records a derived view outcome
func (c *Collector) RecordDerivation(status string, visibleNodes int) {
	if c == nil {
		return
	}
	c.Derivations.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		c.VisibleNodes.Observe(float64(visibleNodes))
	}
}

// RecordLayout records layout engine latency
func (c *Collector) RecordLayout(algorithm string, duration time.Duration) {
	if c == nil {
		return
	}
	c.LayoutDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordChatTurn records a chat turn outcome and model latency
func (c *Collector) RecordChatTurn(status string, modelDuration time.Duration) {
	if c == nil {
		return
	}
	c.ChatTurns.WithLabelValues(status).Inc()
	if modelDuration > 0 {
		c.ModelDuration.Observe(modelDuration.Seconds())
	}
}

// RecordDatasetReload records a reload attempt
func (c *Collector) RecordDatasetReload(status string, revision uint64) {
	if c == nil {
		return
	}
	c.DatasetReloads.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		c.DatasetRevision.Set(float64(revision))
	}
}

// Increment implements the bus Metrics interface
func (c *Collector) Increment(metric, label string) {
	if c == nil {
		return
	}
	c.Operations.WithLabelValues(metric, label).Inc()
}

// StartTimer implements the bus Metrics interface
func (c *Collector) StartTimer(metric, label string) Timer {
	return &timer{collector: c, metric: metric, label: label, start: time.Now()}
}

// Timer is stopped once the timed operation ends
type Timer = interface {
	Stop()
}

type timer struct {
	collector *Collector
	metric    string
	label     string
	start     time.Time
}

func (t *timer) Stop() {
	if t.collector == nil {
		return
	}
	t.collector.OperationDuration.WithLabelValues(t.metric, t.label).Observe(time.Since(t.start).Seconds())
}

// Outcome labels
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusInvalid = "invalid"
)
