// Package metrics exposes the pipeline's Prometheus counters and
// histograms, grounded on LiamAshdown-whale-activity's
// internal/metrics/metrics.go promauto var-block-plus-helpers pattern.
// This is the concrete mechanism behind spec §4.8's "counters/observability"
// requirement.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PicksReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surepulse_picks_received_total",
			Help: "Total number of raw feed records received from the upstream poller",
		},
	)

	PicksParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surepulse_picks_parsed_total",
			Help: "Total number of raw records the feed parser turned into a surebet",
		},
		[]string{"outcome"}, // parsed, discarded
	)

	PicksValidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surepulse_picks_validated_total",
			Help: "Total number of validation chain outcomes, by the link that decided them",
		},
		[]string{"result", "link"}, // result: pass/fail; link: odds-range, profit-range, ...
	)

	PicksDeduped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surepulse_picks_deduped_total",
			Help: "Total number of picks dropped by the dedup or opposite-market validators",
		},
	)

	PicksSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surepulse_picks_sent_total",
			Help: "Total number of picks successfully enqueued on the dispatcher",
		},
	)

	PicksDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surepulse_picks_dropped_total",
			Help: "Total number of picks dropped, bucketed by reason",
		},
		[]string{"reason"}, // overflow, error, below-min-odds, sharp-too-skewed, stake-tier-range
	)

	DispatchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "surepulse_dispatch_latency_seconds",
			Help:    "Time from enqueue to a successful send",
			Buckets: prometheus.DefBuckets,
		},
	)

	PollCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "surepulse_poll_cycle_duration_seconds",
			Help:    "Duration of one adaptive-poller fetch cycle",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 3, 5},
		},
	)
)

// RecordParsed records the outcome of one feed-parser decision.
func RecordParsed(discarded bool) {
	if discarded {
		PicksParsed.WithLabelValues("discarded").Inc()
		return
	}
	PicksParsed.WithLabelValues("parsed").Inc()
}

// RecordValidation records one validation chain outcome.
func RecordValidation(pass bool, link string) {
	result := "pass"
	if !pass {
		result = "fail"
	}
	PicksValidated.WithLabelValues(result, link).Inc()
}

// RecordDropped increments the dropped counter for reason.
func RecordDropped(reason string) {
	PicksDropped.WithLabelValues(reason).Inc()
}

// RecordDispatchLatency observes the time between enqueue and delivery.
func RecordDispatchLatency(enqueuedAt time.Time) {
	DispatchLatency.Observe(time.Since(enqueuedAt).Seconds())
}

// RecordPollCycle observes how long one poller cycle took.
func RecordPollCycle(d time.Duration) {
	PollCycleDuration.Observe(d.Seconds())
}
