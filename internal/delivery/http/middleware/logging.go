package middleware

import (
	"net/http"
	"time"

	"github.com/frontandrew/stationtime/internal/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// responseWriter обертка для захвата status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// LoggingMiddleware логирует все HTTP запросы
func LoggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
				"bytes":       rw.written,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.UserAgent(),
			}
			if reqID := chiMiddleware.GetReqID(r.Context()); reqID != "" {
				fields["request_id"] = reqID
			}

			if rw.statusCode >= http.StatusInternalServerError {
				log.Error("HTTP request", fields)
				return
			}
			log.Info("HTTP request", fields)
		})
	}
}
