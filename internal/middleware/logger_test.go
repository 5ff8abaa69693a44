package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(Logger())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/prescriptions", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := log.Writer()
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return buf
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	r := loggedRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/prescriptions", nil))
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/prescriptions", nil)
	req.Header.Set("X-Request-ID", "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get("X-Request-ID"))
}

func TestLoggerWritesRequestLine(t *testing.T) {
	buf := captureLog(t)
	r := loggedRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/prescriptions?force=true", nil))

	out := buf.String()
	assert.Contains(t, out, "GET /api/prescriptions?force=true 200")
}

func TestLoggerSkipsLivenessEndpoint(t *testing.T) {
	buf := captureLog(t)
	r := loggedRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, buf.String(), "/api/health")
}
