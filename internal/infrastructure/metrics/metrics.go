package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RateMetrics holds the prometheus instruments for the comparison flow.
type RateMetrics struct {
	ComparisonsTotal      prometheus.CounterVec
	ComparisonDuration    prometheus.HistogramVec
	PlatformQuotesTotal   prometheus.CounterVec
	PlatformQuoteDuration prometheus.HistogramVec
	ComparisonWinsTotal   prometheus.CounterVec
}

func NewRateMetrics() *RateMetrics {
	return &RateMetrics{
		ComparisonsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_comparisons_total",
				Help: "Total rate comparison requests by corridor and status",
			},
			[]string{"corridor", "status"},
		),

		ComparisonDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rate_comparison_duration_seconds",
				Help:    "End-to-end comparison duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"corridor"},
		),

		PlatformQuotesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "platform_quotes_total",
				Help: "Platform quote attempts by platform and outcome",
			},
			[]string{"platform", "outcome"},
		),

		PlatformQuoteDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "platform_quote_duration_seconds",
				Help:    "Upstream platform quote duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"platform"},
		),

		ComparisonWinsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comparison_wins_total",
				Help: "Times each platform offered the best quote",
			},
			[]string{"platform"},
		),
	}
}

// RecordComparison records one finished comparison request.
func (m *RateMetrics) RecordComparison(corridor, status string, durationSeconds float64) {
	m.ComparisonsTotal.WithLabelValues(corridor, status).Inc()
	m.ComparisonDuration.WithLabelValues(corridor).Observe(durationSeconds)
}

// RecordPlatformQuote records one platform quote attempt.
func (m *RateMetrics) RecordPlatformQuote(platform string, success bool, durationSeconds float64) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.PlatformQuotesTotal.WithLabelValues(platform, outcome).Inc()
	m.PlatformQuoteDuration.WithLabelValues(platform).Observe(durationSeconds)
}

// RecordWinner records which platform won a comparison.
func (m *RateMetrics) RecordWinner(platform string) {
	m.ComparisonWinsTotal.WithLabelValues(platform).Inc()
}
