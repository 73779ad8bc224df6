// Package metrics exposes Prometheus collectors for the feed and the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for feed computations.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "store_unavailable"
	OutcomeCancelled   = "cancelled"
)

type Metrics struct {
	feedDuration *prometheus.HistogramVec
	feedEntries  prometheus.Histogram
	httpRequests *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		feedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "snapfeed",
			Subsystem: "feed",
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing a home feed, by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		feedEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "snapfeed",
			Subsystem: "feed",
			Name:      "entries",
			Help:      "Number of entries returned per feed page.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 500},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snapfeed",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.feedDuration, m.feedEntries, m.httpRequests)
	return m
}

// ObserveFeed records one feed computation. Safe on a nil receiver.
func (m *Metrics) ObserveFeed(outcome string, d time.Duration, entries int) {
	if m == nil {
		return
	}
	m.feedDuration.WithLabelValues(outcome).Observe(d.Seconds())
	if outcome == OutcomeOK {
		m.feedEntries.Observe(float64(entries))
	}
}

// ObserveRequest counts one HTTP request. Safe on a nil receiver.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
