package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	transactionsRecorded      *prometheus.CounterVec
	transactionDuration       prometheus.Histogram
	authenticationEventsTotal *prometheus.CounterVec
	rateFetchesTotal          *prometheus.CounterVec
	rateFetchDuration         prometheus.Histogram
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		transactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_recorded_total",
				Help: "Total number of transaction mutations by operation and status",
			},
			[]string{"operation", "status"},
		),
		transactionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transaction_recording_duration_milliseconds",
				Help:    "Transaction recording duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		rateFetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "currency_rate_fetches_total",
				Help: "Total number of upstream exchange rate fetches",
			},
			[]string{"status"},
		),
		rateFetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "currency_rate_fetch_duration_seconds",
				Help:    "Upstream exchange rate fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "transaction.recorded":
		m.transactionsRecorded.WithLabelValues(tags["operation"], tags["status"]).Inc()
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	case "currency.rate_fetch":
		if status := tags["status"]; status != "" {
			m.rateFetchesTotal.WithLabelValues(status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "transaction.recording":
		m.transactionDuration.Observe(float64(duration.Milliseconds()))
	case "currency.rate_fetch":
		m.rateFetchDuration.Observe(duration.Seconds())
	}
}
