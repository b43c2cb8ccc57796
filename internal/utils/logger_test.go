package utils

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) Logger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestSlogLogger_LogRequestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	logger.LogRequest("GET", "/health", 200, "1ms")
	assert.Contains(t, buf.String(), `"level":"INFO"`)

	buf.Reset()
	logger.LogRequest("POST", "/api/v1/sessions", 404, "1ms")
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	logger.LogRequest("POST", "/api/v1/sessions", 503, "1ms", "client_ip", "10.0.0.1")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"client_ip":"10.0.0.1"`)
}

func TestSlogLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	bufferLogger(&buf).With("session_id", "s-1").LogError(errors.New("boom"), "checkpoint failed")

	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"session_id":"s-1"`)
	assert.Contains(t, buf.String(), `"msg":"checkpoint failed"`)
}

func TestContextLogger_AssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	router := gin.New()
	router.Use(ContextLogger(bufferLogger(&buf)))
	router.GET("/ping", func(c *gin.Context) {
		GetLoggerFromContext(c).Info("handled")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	generated := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Contains(t, buf.String(), generated)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestToSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	assert.NotNil(t, ToSlogLogger(logger))
	assert.Same(t, logger.(*SlogLogger).GetSlogLogger(), ToSlogLogger(logger))
}

func TestNewLogger_TagsService(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, true).Info("ready")

	assert.Contains(t, buf.String(), `"service":"quality-service"`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)

	buf.Reset()
	newLogger(&buf, true).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLoggerMiddleware_SkipsProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	router := gin.New()
	router.Use(ContextLogger(logger), LoggerMiddleware(logger))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/sessions/:id/time", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s-1/time", nil))
	assert.Contains(t, buf.String(), `"status_code":404`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"request_id":"`)
}
