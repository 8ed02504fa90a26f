package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook outcome labels. Each webhook request increments the outcome
// counter exactly once with one of these.
const (
	ResultInvalidSignature = "invalid_signature"
	ResultValidationError  = "validation_error"
	ResultDuplicate        = "duplicate"
	ResultCreated          = "created"
	ResultStorageError     = "storage_error"
)

// Metrics is the process-wide collector set. It owns a private
// registry and is handed to the components that record into it, so
// nothing depends on ambient global state.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	WebhookRequestsTotal *prometheus.CounterVec
	RequestLatencyMs     prometheus.Histogram
	MessagesTotal        prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"path", "status"}),
		WebhookRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total webhook requests",
		}, []string{"result"}),
		RequestLatencyMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "request_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: []float64{100, 500, 1000, 5000, 10000},
		}),
		MessagesTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "messages_total",
			Help: "Messages currently stored, as of the last stats snapshot",
		}),
	}
}
