package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rxlens/internal/config"
	"rxlens/internal/domain"
	"rxlens/internal/handler"
	"rxlens/internal/health"
	"rxlens/internal/ws"
	"rxlens/mocks"
)

func testEngine(t *testing.T) func(req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	cfg := &config.Config{
		API:    config.APIConfig{Key: "test-key"},
		Server: config.ServerConfig{Environment: "production"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	healthRepo := new(mocks.MockHealthRepo)
	healthRepo.On("Ping", mock.Anything).Return(nil)

	presSvc := new(mocks.MockPrescriptionService)
	presSvc.On("List", mock.Anything).Return([]domain.Prescription{}, nil)

	r := Setup(
		cfg,
		ws.NewHub(nil),
		handler.NewHealthHandler(healthRepo, health.NewMonitor(healthRepo, time.Minute, 10)),
		handler.NewPrescriptionHandler(presSvc, 10),
		handler.NewConfigHandler(new(mocks.MockConfigService)),
		handler.NewExportHandler(new(mocks.MockPrescriptionRepo), new(mocks.MockResultRepo)),
	)

	return func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
}

func TestHealthIsPublic(t *testing.T) {
	do := testEngine(t)

	w := do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrescriptionsRequireAPIKey(t *testing.T) {
	do := testEngine(t)

	w := do(httptest.NewRequest(http.MethodGet, "/api/prescriptions", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/prescriptions", nil)
	req.Header.Set("X-API-Key", "test-key")
	w = do(req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImageEndpointIsPublic(t *testing.T) {
	do := testEngine(t)

	// Invalid UUID still proves the route is reachable without a key.
	w := do(httptest.NewRequest(http.MethodGet, "/api/prescriptions/not-a-uuid/image", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportRequiresAPIKey(t *testing.T) {
	do := testEngine(t)

	w := do(httptest.NewRequest(http.MethodGet, "/api/export/csv", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
