package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTP(reg)

	r := chi.NewRouter()
	r.Use(m.Latency)
	r.Get("/api/cities/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/cities/1", "/api/cities/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	count, err := testutil.GatherAndCount(reg, "projet_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "both requests share one series")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}
