package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projet/internal/geo/handler"
	"projet/internal/geo/service"
	citystore "projet/internal/geo/store/city"
	playerstore "projet/internal/geo/store/player"
	regionstore "projet/internal/geo/store/region"
	"projet/internal/platform/logger"
	"projet/internal/platform/metrics"
	"projet/internal/platform/middleware"
)

func newTestRouter(t *testing.T, checks map[string]healthCheck) http.Handler {
	t.Helper()
	log := logger.Nop()
	reg := prometheus.NewRegistry()
	tx := service.NewInMemoryTx(service.Stores{
		Regions: regionstore.NewInMemory(),
		Cities:  citystore.NewInMemory(),
		Players: playerstore.NewInMemory(),
	}, 0)
	api := handler.New(
		service.NewRegionService(tx, service.WithLogger(log)),
		service.NewCityService(tx, service.WithLogger(log)),
		service.NewPlayerService(tx, service.WithLogger(log)),
		log,
	)
	return newRouter(routerConfig{
		Logger:         log,
		Registry:       reg,
		HTTPMetrics:    metrics.NewHTTP(reg),
		API:            api,
		Checks:         checks,
		RequestTimeout: time.Second,
	})
}

func TestHealth(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		router := newTestRouter(t, map[string]healthCheck{
			"postgres": func(context.Context) error { return nil },
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body healthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "ok", body.Checks["postgres"])
	})

	t.Run("a failing dependency degrades the service", func(t *testing.T) {
		router := newTestRouter(t, map[string]healthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body healthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "connection refused", body.Checks["redis"])
	})
}

func TestRouterServesAPIAndMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/regions", strings.NewReader(`{"name":"Grand Est"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "projet_http_request_duration_seconds_count")
	assert.Contains(t, rec.Body.String(), `status="201"`)
}
