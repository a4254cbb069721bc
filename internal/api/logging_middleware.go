package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// loggingResponseWriter records the status and any error message a handler reports.
type loggingResponseWriter struct {
	middleware.WrapResponseWriter
	errorMessage string
}

func newLoggingResponseWriter(w http.ResponseWriter, r *http.Request) *loggingResponseWriter {
	return &loggingResponseWriter{WrapResponseWriter: middleware.NewWrapResponseWriter(w, r.ProtoMajor)}
}

func (w *loggingResponseWriter) SetErrorMessage(message string) {
	w.errorMessage = message
}

func (w *loggingResponseWriter) ErrorMessage() string {
	return w.errorMessage
}

func requestFields(r *http.Request) []any {
	return []any{
		"request_id", middleware.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"route", routePattern(r),
		"remote_ip", r.RemoteAddr,
	}
}

func requestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newLoggingResponseWriter(w, r)

			next.ServeHTTP(wrapped, r)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := append(requestFields(r),
				"query", r.URL.RawQuery,
				"status", status,
				"bytes", wrapped.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			if message := wrapped.ErrorMessage(); message != "" {
				fields = append(fields, "error_message", message)
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("http request completed", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn("http request completed", fields...)
			default:
				logger.Debug("http request completed", fields...)
			}
		})
	}
}

func recoveryLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				fields := append(requestFields(r),
					"panic", fmt.Sprint(recovered),
					"stack", string(debug.Stack()),
				)
				logger.Error("panic recovered", fields...)

				if statusWriter, ok := w.(interface{ Status() int }); ok && statusWriter.Status() != 0 {
					return
				}
				writeError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
