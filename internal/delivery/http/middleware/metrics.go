package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/frontandrew/stationtime/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// MetricsMiddleware пишет метрики Prometheus по каждому запросу
// В метку path попадает шаблон маршрута chi, а не сырой путь
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		metrics.ObserveHTTPRequest(r.Method, path, strconv.Itoa(rw.statusCode), time.Since(start))
	})
}
