package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bridgeart_test_total",
		Help: "test counter",
	}, []string{"status"})
	counter.WithLabelValues("success").Inc()

	rec := httptest.NewRecorder()
	NewHandler(counter).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `bridgeart_test_total{status="success"} 1`)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
