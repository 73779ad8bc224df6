package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFeedCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveFeed(OutcomeOK, 10*time.Millisecond, 3)
	m.ObserveFeed(OutcomeOK, 20*time.Millisecond, 0)
	m.ObserveFeed(OutcomeUnavailable, time.Millisecond, 0)

	assert.Equal(t, 2, testutil.CollectAndCount(m.feedDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.feedEntries))
}

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest(http.MethodGet, "/api/posts/feed", http.StatusOK)
	m.ObserveRequest(http.MethodGet, "/api/posts/feed", http.StatusOK)
	m.ObserveRequest(http.MethodGet, "/api/posts/feed", http.StatusServiceUnavailable)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/posts/feed", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/posts/feed", "503")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFeed(OutcomeOK, time.Second, 1)
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK)
	})
}
