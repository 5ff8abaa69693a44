package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rxlens/internal/health"
	"rxlens/internal/port"
	"rxlens/mocks"
)

func newHealthRouter(repo port.HealthRepository, monitor *health.Monitor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(repo, monitor)
	r := gin.New()
	r.GET("/api/health", h.Check)
	r.GET("/api/health/db", h.DB)
	return r
}

func TestHealthCheckOK(t *testing.T) {
	repo := new(mocks.MockHealthRepo)
	repo.On("Ping", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	newHealthRouter(repo, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestHealthCheckDegraded(t *testing.T) {
	repo := new(mocks.MockHealthRepo)
	repo.On("Ping", mock.Anything).Return(errors.New("dial tcp: connection refused"))

	w := httptest.NewRecorder()
	newHealthRouter(repo, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestHealthDBReport(t *testing.T) {
	repo := new(mocks.MockHealthRepo)
	repo.On("Stats", mock.Anything).Return(&port.DBStats{
		PrescriptionCount: 5,
		ResultCount:       90,
		DatabaseSize:      "12 MB",
	}, nil)

	monitor := health.NewMonitor(repo, time.Minute, 10)
	monitor.Collect(context.Background())

	w := httptest.NewRecorder()
	newHealthRouter(repo, monitor).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health/db", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["healthy"])
}

func TestHealthDBUnhealthy(t *testing.T) {
	repo := new(mocks.MockHealthRepo)
	repo.On("Stats", mock.Anything).Return(nil, errors.New("query timeout"))

	monitor := health.NewMonitor(repo, time.Minute, 10)
	monitor.Collect(context.Background())

	w := httptest.NewRecorder()
	newHealthRouter(repo, monitor).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health/db", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}
