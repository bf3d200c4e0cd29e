package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookcheckout"

// Metrics owns its registry, so several instances can live in one process (tests).
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	LatencyMS        *prometheus.HistogramVec
	Checkouts        *prometheus.CounterVec
	GatewayLatencyMS prometheus.Histogram
	Webhooks         *prometheus.CounterVec
	Materializations *prometheus.CounterVec
	OutboxPublished  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_sessions_total",
			Help:      "Checkout session attempts by outcome.",
		}, []string{"outcome"}),
		GatewayLatencyMS: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_gateway_duration_ms",
			Help:      "Latency of payment session creation in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		Webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Payment webhook deliveries by outcome.",
		}, []string{"outcome"}),
		Materializations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_materializations_total",
			Help:      "Order materialization attempts by result.",
		}, []string{"result"}),
		OutboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "Outbox rows handed to the broker by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.LatencyMS,
		m.Checkouts,
		m.GatewayLatencyMS,
		m.Webhooks,
		m.Materializations,
		m.OutboxPublished,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, status).Inc()
	m.LatencyMS.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))
}

func (m *Metrics) CheckoutOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveGateway(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GatewayLatencyMS.Observe(float64(elapsed.Milliseconds()))
}

func (m *Metrics) WebhookOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Webhooks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) MaterializationResult(result string) {
	if m == nil {
		return
	}
	m.Materializations.WithLabelValues(result).Inc()
}

func (m *Metrics) OutboxResult(result string) {
	if m == nil {
		return
	}
	m.OutboxPublished.WithLabelValues(result).Inc()
}
