package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"newsboard/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.NewsCreated.Inc()
	m.AuthFailures.WithLabelValues("login").Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "newsboard_news_created_total 1")
	require.Contains(t, w.Body.String(), `newsboard_auth_failures_total{kind="login"} 1`)
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.NewsCreated.Inc()

	require.Equal(t, 1.0, testutil.ToFloat64(a.NewsCreated))
	require.Equal(t, 0.0, testutil.ToFloat64(b.NewsCreated))
}
