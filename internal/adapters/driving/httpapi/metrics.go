package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	chatResponses   *prometheus.CounterVec
	ingestedRecords *prometheus.CounterVec
	ingestFailures  *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"method", "path"},
	)
	m.chatResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_responses_total",
			Help:      "Chat responses by source branch",
		},
		[]string{"source"},
	)
	m.ingestedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_records_total",
			Help:      "Records upserted into the vector indexes",
		},
		[]string{"kind"},
	)
	m.ingestFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_failures_total",
			Help:      "Failed ingestion requests by route",
		},
		[]string{"route"},
	)

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.chatResponses,
		m.ingestedRecords,
		m.ingestFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records request counts and latency.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		m.requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeChat(source domain.Source) {
	m.chatResponses.WithLabelValues(source.String()).Inc()
}

func (m *Metrics) observeIngest(report domain.IngestReport) {
	if report.TextChunks > 0 {
		m.ingestedRecords.WithLabelValues(domain.RecordKindText.String()).Add(float64(report.TextChunks))
	}
	if report.Images > 0 {
		m.ingestedRecords.WithLabelValues(domain.RecordKindImage.String()).Add(float64(report.Images))
	}
}

func (m *Metrics) observeIngestFailure(route string) {
	m.ingestFailures.WithLabelValues(route).Inc()
}
