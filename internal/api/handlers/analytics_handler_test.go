package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/clothingsearch/internal/api/handlers"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

func TestAnalyticsHandler_GetZeroResultQueries(t *testing.T) {
	svc := new(MockAnalyticsService)
	handler := handlers.NewAnalyticsHandler(svc)
	svc.On("GetZeroResultQueries", mock.Anything, 100).Return([]*entities.SearchEvent{{Query: "unicorn"}}, nil)
	svc.On("GetZeroResultQueries", mock.Anything, 5).Return(nil, nil)

	w := httptest.NewRecorder()
	handler.GetZeroResultQueries(w, httptest.NewRequest(http.MethodGet, "/api/analytics/zero-results", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = httptest.NewRecorder()
	handler.GetZeroResultQueries(w, httptest.NewRequest(http.MethodGet, "/api/analytics/zero-results?limit=5", nil))
	assert.JSONEq(t, `{"queries":[],"count":0}`, w.Body.String())

	svc.AssertExpectations(t)
}

func TestAnalyticsHandler_LimitValidation(t *testing.T) {
	svc := new(MockAnalyticsService)
	handler := handlers.NewAnalyticsHandler(svc)

	for _, q := range []string{"limit=0", "limit=1001", "limit=ten"} {
		w := httptest.NewRecorder()
		handler.GetZeroResultQueries(w, httptest.NewRequest(http.MethodGet, "/api/analytics/zero-results?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	svc.AssertNotCalled(t, "GetZeroResultQueries")
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	healthy := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"postgres": pingerFunc(func(context.Context) error { return nil }),
		"redis":    nil,
	})

	w := httptest.NewRecorder()
	healthy.Live(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	healthy.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","checks":{"postgres":"ok"}}`, w.Body.String())

	degraded := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"postgres": pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	w = httptest.NewRecorder()
	degraded.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
