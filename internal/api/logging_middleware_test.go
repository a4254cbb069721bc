package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calclog/pkg/calclog"
)

func TestNewRouterLogsWarnForBadRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router, _ := setupRouterWithLogger(t, logger)

	rr := doRequest(router, http.MethodPost, "/api/trainings", map[string]any{"code": "XYZ", "values": []float64{1}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	logs := buf.String()
	for _, want := range []string{"level=WARN", "status=400", "method=POST", "path=/api/trainings", "request_id=", "error_message="} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %q in logs, got %q", want, logs)
		}
	}
}

func TestNewRouterLogsDebugForSuccess(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router, _ := setupRouterWithLogger(t, logger)

	doRequest(router, http.MethodGet, "/api/health", nil)

	logs := buf.String()
	if !strings.Contains(logs, "http request completed") || !strings.Contains(logs, "status=200") {
		t.Fatalf("expected completion log, got %q", logs)
	}
	if !strings.Contains(logs, "route=/api/health") {
		t.Fatalf("expected route pattern, got %q", logs)
	}
}

func TestRecoveryMiddlewareWritesStructuredError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := recoveryLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/trainings", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `{"error":"internal server error"}`) {
		t.Fatalf("expected structured error response, got %q", rr.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") || !strings.Contains(buf.String(), "panic=boom") {
		t.Fatalf("expected panic log, got %q", buf.String())
	}
}

func TestWriteJSONEncodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	huge, err := calclog.ParseAmount("1e400")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	handler := requestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"value": huge})
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/finance/results", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `{"error":"internal server error"}`) {
		t.Fatalf("expected error body, got %q", rr.Body.String())
	}
	logs := buf.String()
	for _, want := range []string{"level=ERROR", "status=500", "encode response", "out of range"} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %q in logs, got %q", want, logs)
		}
	}
}
