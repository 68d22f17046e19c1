package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/frontandrew/stationtime/internal/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RecoveryMiddleware восстанавливается после panic и возвращает 500 ошибку
func RecoveryMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					log.Error("Panic recovered", map[string]interface{}{
						"error":       err,
						"stack":       string(debug.Stack()),
						"method":      r.Method,
						"path":        r.URL.Path,
						"request_id":  chiMiddleware.GetReqID(r.Context()),
						"remote_addr": r.RemoteAddr,
					})

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"success":false,"error":"Internal server error","code":"INTERNAL_ERROR"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
