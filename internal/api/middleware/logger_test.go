package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveLogged(t *testing.T, status int) map[string]any {
	t.Helper()
	logBuffer := new(bytes.Buffer)
	testLogger := slog.New(slog.NewJSONHandler(logBuffer, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("body"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/7", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	req.Header.Set("User-Agent", "TestAgent/1.0")
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id-123"))

	rr := httptest.NewRecorder()
	StructuredLogger(testLogger)(next).ServeHTTP(rr, req)
	require.Equal(t, status, rr.Code)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(logBuffer.Bytes(), &logEntry), "Failed to unmarshal log output")
	return logEntry
}

func TestStructuredLogger(t *testing.T) {
	logEntry := serveLogged(t, http.StatusOK)

	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "Served request", logEntry["msg"])
	assert.Equal(t, "http", logEntry["component"])
	assert.Equal(t, "GET", logEntry["method"])
	assert.Equal(t, "/api/v1/customers/7", logEntry["path"])
	assert.Equal(t, "192.0.2.1:12345", logEntry["remote_addr"])
	assert.Equal(t, "TestAgent/1.0", logEntry["user_agent"])
	assert.Equal(t, float64(http.StatusOK), logEntry["status"])
	assert.Equal(t, float64(4), logEntry["bytes_written"])
	assert.Equal(t, "test-request-id-123", logEntry["request_id"])
	assert.Contains(t, logEntry, "latency_ms")
}

func TestStructuredLoggerLevelFollowsStatus(t *testing.T) {
	assert.Equal(t, "WARN", serveLogged(t, http.StatusNotFound)["level"])
	assert.Equal(t, "WARN", serveLogged(t, http.StatusConflict)["level"])
	assert.Equal(t, "ERROR", serveLogged(t, http.StatusInternalServerError)["level"])
}
