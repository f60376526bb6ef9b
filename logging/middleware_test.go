package logging

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func newCapturingMiddleware(buf *strings.Builder) func(http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return LoggingMiddleware(logger)
}

func TestLoggingMiddlewareSkipsProbePaths(t *testing.T) {
	var buf strings.Builder
	handler := newCapturingMiddleware(&buf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/api/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			buf.Reset()
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if buf.Len() != 0 {
				t.Errorf("probe path %s was logged: %s", path, buf.String())
			}
		})
	}
}

func TestLoggingMiddlewareLogsRequestFields(t *testing.T) {
	var buf strings.Builder
	handler := newCapturingMiddleware(&buf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/medications/search?q=atorvastatin", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-42"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"request_id=req-42", "method=GET", "path=/api/medications/search", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestLoggingMiddlewareLevelsByStatusClass(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusBadRequest, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		var buf strings.Builder
		handler := newCapturingMiddleware(&buf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/test", nil))

		if !strings.Contains(buf.String(), tt.wantLevel) {
			t.Errorf("status %d: log output missing %q: %s", tt.status, tt.wantLevel, buf.String())
		}
	}
}
