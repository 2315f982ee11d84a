package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shashiranjanraj/liveserver/pkg/logger"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger writes one access line per request through logger.L.
// Wire RequestID before it so the line carries request_id.
func Logger(next http.Handler) http.Handler {
	return AccessLog(nil)(next)
}

// AccessLog is Logger with an explicit base logger; nil means logger.L.
func AccessLog(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			log := base
			if log == nil {
				log = logger.L
			}
			reqLog := log.With("request_id", RequestIDFrom(r.Context()))
			r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			reqLog.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration", time.Since(start).String(),
				"ip", r.RemoteAddr,
			)
		})
	}
}
