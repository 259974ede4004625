package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.ObserveRPC("getAccountInfo", 10*time.Millisecond, nil)
	m.ObserveRPC("getAccountInfo", 10*time.Millisecond, errors.New("boom"))
	m.RecordDiscovered(7)
	m.RecordMarket(OutcomeReported)
	m.RecordMarket(OutcomeReported)
	m.RecordMarket(OutcomeDropped)
	m.RecordBookDepth(3, 4)
	m.RecordRun("search", time.Second, nil)

	body := scrape(t, reg)
	assert.Contains(t, body, `test_solana_rpc_call_errors_total{method="getAccountInfo"} 1`)
	assert.Contains(t, body, `test_solana_rpc_call_latency_seconds_count{method="getAccountInfo"} 2`)
	assert.Contains(t, body, "test_discovery_markets_discovered 7")
	assert.Contains(t, body, `test_analytics_markets_total{outcome="reported"} 2`)
	assert.Contains(t, body, `test_analytics_markets_total{outcome="dropped"} 1`)
	assert.Contains(t, body, `test_analytics_book_levels_count{side="bid"} 1`)
	assert.Contains(t, body, `test_pipeline_runs_total{mode="search",status="success"} 1`)
}

func TestMetrics_RunError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("", reg)

	m.RecordRun("watchlist", time.Second, errors.New("boom"))

	body := scrape(t, reg)
	assert.Contains(t, body, `serumscan_pipeline_runs_total{mode="watchlist",status="error"} 1`)
	assert.Contains(t, body, "serumscan_health_last_successful_run_timestamp 0")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRPC("getAccountInfo", time.Millisecond, nil)
	m.RecordDiscovered(1)
	m.RecordMarket(OutcomeSkipped)
	m.RecordBookDepth(1, 2)
	m.RecordRun("search", time.Second, errors.New("boom"))
}
