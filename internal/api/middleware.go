package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/diaryhq/diary-server/internal/errors"
)

// requestLogger logs one line per request through slog, tagged with the
// request ID set by middleware.RequestID.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// notFound answers unknown routes with the error envelope.
func notFound(w http.ResponseWriter, _ *http.Request) {
	writeErrorEnvelope(w, http.StatusNotFound, string(domainerrors.CodeNotFound), "Route not found")
}

// methodNotAllowed answers known routes called with the wrong method.
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeErrorEnvelope(w, http.StatusMethodNotAllowed, string(domainerrors.CodeValidation), "Method not allowed")
}
