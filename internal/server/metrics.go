package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Invoice outcomes
const (
	outcomeGenerated = "generated"
	outcomeInvalid   = "invalid"
	outcomeMalformed = "malformed"
	outcomeFailed    = "failed"
)

// Metrics holds the server's collectors on a private registry
type Metrics struct {
	registry       *prometheus.Registry
	requestLatency *prometheus.SummaryVec
	requests       *prometheus.CounterVec
	invoices       *prometheus.CounterVec
	renderSeconds  prometheus.Histogram
	documentBytes  prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestLatency: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		invoices: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoices_total",
				Help: "Invoice requests by outcome",
			},
			[]string{"outcome"},
		),
		renderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoice_generate_duration_seconds",
			Help:    "Time spent validating and rendering one invoice",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		documentBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoice_document_bytes",
			Help:    "Size of generated documents",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 12),
		}),
	}
}

// Middleware records latency and count for every request
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requestLatency.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) observeInvoice(outcome string) {
	m.invoices.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeDocument(d time.Duration, size int) {
	m.renderSeconds.Observe(d.Seconds())
	m.documentBytes.Observe(float64(size))
}
