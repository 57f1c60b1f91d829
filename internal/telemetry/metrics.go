package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	QuotesTotal     *prometheus.CounterVec
	QuoteDuration   *prometheus.HistogramVec
	CarrierFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the quote metrics with the given
// registerer. A nil registerer uses the default one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "postnord_rates_quotes_total",
				Help: "Total number of quote requests by carrier and outcome",
			},
			[]string{"carrier", "status"},
		),
		QuoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "postnord_rates_quote_duration_seconds",
				Help:    "Quote request duration in seconds by carrier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"carrier"},
		),
		CarrierFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "postnord_rates_carrier_failures_total",
				Help: "Total carrier quote failures by carrier and failure class",
			},
			[]string{"carrier", "failure_class"},
		),
	}
}

// RecordQuote records a quote request outcome.
func (m *Metrics) RecordQuote(carrier, status string, duration float64) {
	m.QuotesTotal.WithLabelValues(carrier, status).Inc()
	m.QuoteDuration.WithLabelValues(carrier).Observe(duration)
}

// RecordFailure records a classified carrier failure.
func (m *Metrics) RecordFailure(carrier, failureClass string) {
	m.CarrierFailures.WithLabelValues(carrier, failureClass).Inc()
}
