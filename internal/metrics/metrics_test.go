package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/discount-pro/internal/metrics"
)

var _ metrics.Recorder = (*metrics.Collector)(nil)
var _ metrics.Recorder = metrics.Nop{}

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordAuthAttempt("login", true)
	c.RecordAuthAttempt("login", false)
	c.RecordAuthAttempt("login", false)
	c.RecordBookmark("save", "saved")
	c.RecordRestore("restored")
	c.SetActiveSessions(3)

	count, err := testutil.GatherAndCount(reg, "discountpro_auth_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per result label")

	expected := `
# HELP discountpro_active_client_sessions Client sessions currently held in memory.
# TYPE discountpro_active_client_sessions gauge
discountpro_active_client_sessions 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "discountpro_active_client_sessions"))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	c.RecordRestore("empty")

	w := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `discountpro_session_restores_total{outcome="empty"} 1`)
}
