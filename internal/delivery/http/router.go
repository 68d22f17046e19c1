package http

import (
	"net/http"

	"github.com/frontandrew/stationtime/internal/delivery/http/middleware"
	"github.com/frontandrew/stationtime/internal/pkg/config"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	workTimeHandler *WorkTimeHandler
	weatherHandler  *WeatherHandler
	reportHandler   *ReportHandler
	adminHandler    *AdminHandler
	config          *config.Config
	logger          logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	workTimeHandler *WorkTimeHandler,
	weatherHandler *WeatherHandler,
	reportHandler *ReportHandler,
	adminHandler *AdminHandler,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		workTimeHandler: workTimeHandler,
		weatherHandler:  weatherHandler,
		reportHandler:   reportHandler,
		adminHandler:    adminHandler,
		config:          config,
		logger:          logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))
	if rt.config.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware)
		r.Handle(rt.config.Metrics.Path, promhttp.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Отметки карт на станциях
		r.Post("/taps", rt.workTimeHandler.HandleTap)

		r.Route("/weather", func(r chi.Router) {
			r.Post("/", rt.weatherHandler.RecordReading)
			r.Get("/", rt.reportHandler.ListWeatherData)
			r.Get("/{id}", rt.reportHandler.GetWeatherData)
		})

		r.Route("/stations", func(r chi.Router) {
			r.Get("/", rt.reportHandler.ListStations)
			r.Post("/", rt.adminHandler.CreateStation)
			r.Get("/{id}", rt.reportHandler.GetStation)
			r.Patch("/{id}", rt.adminHandler.UpdateStation)
			r.Delete("/{id}", rt.adminHandler.DeleteStation)
			r.Get("/{id}/data", rt.reportHandler.GetStationData)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", rt.reportHandler.ListEmployees)
			r.Post("/", rt.adminHandler.CreateEmployee)
			r.Get("/{id}", rt.reportHandler.GetEmployee)
			r.Delete("/{id}", rt.adminHandler.DeleteEmployee)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", rt.reportHandler.ListCards)
			r.Post("/", rt.adminHandler.CreateCard)
			r.Post("/check", rt.workTimeHandler.CheckCard)
			r.Get("/{id}", rt.reportHandler.GetCard)
			r.Patch("/{id}", rt.adminHandler.UpdateCard)
			r.Get("/{id}/data", rt.reportHandler.GetCardData)
		})

		r.Route("/card-logs", func(r chi.Router) {
			r.Get("/", rt.reportHandler.ListCardLogs)
			r.Get("/{id}", rt.reportHandler.GetCardLog)
		})

		r.Route("/work-times", func(r chi.Router) {
			r.Get("/", rt.reportHandler.ListWorkTimes)
			r.Get("/export", rt.reportHandler.ExportWorkTimes)
		})

		r.Post("/work-spaces", rt.adminHandler.CreateWorkSpace)
	})

	return otelhttp.NewHandler(r, "stationtime",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
