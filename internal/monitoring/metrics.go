package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets created by the issuance engine",
		},
	)

	issuanceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_issuance_failures_total",
			Help: "Total issuance transactions rolled back",
		},
	)

	issuanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_issuance_duration_seconds",
			Help:    "Duration of issuance transactions",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	reportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_duration_seconds",
			Help:    "Duration of aggregation reads",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"report"},
	)

	scanOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_operations_total",
			Help: "Total check-in scan attempts",
		},
		[]string{"result"},
	)
)

// TrackIssuance records one committed issuance transaction.
func TrackIssuance(tickets int, duration time.Duration) {
	ticketsIssued.Add(float64(tickets))
	issuanceDuration.Observe(duration.Seconds())
}

// TrackIssuanceFailure records one rolled-back issuance transaction.
func TrackIssuanceFailure(duration time.Duration) {
	issuanceFailures.Inc()
	issuanceDuration.Observe(duration.Seconds())
}

// TrackReport records the latency of one aggregation read.
func TrackReport(report string, duration time.Duration) {
	reportDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// TrackScan records a check-in attempt outcome.
func TrackScan(result string) {
	scanOperations.WithLabelValues(result).Inc()
}
