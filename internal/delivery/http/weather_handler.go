package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/usecase/weather"
)

// WeatherService определяет интерфейс приема показаний
type WeatherService interface {
	RecordReading(ctx context.Context, req *weather.RecordReadingRequest) (*domain.WeatherData, error)
}

// WeatherHandler обрабатывает показания метеостанций
type WeatherHandler struct {
	weatherService WeatherService
	logger         logger.Logger
}

// NewWeatherHandler создает новый handler
func NewWeatherHandler(weatherService WeatherService, logger logger.Logger) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
		logger:         logger,
	}
}

// RecordReading сохраняет показание
// POST /api/v1/weather
func (h *WeatherHandler) RecordReading(w http.ResponseWriter, r *http.Request) {
	var req weather.RecordReadingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	data, err := h.weatherService.RecordReading(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "record weather reading")
		return
	}

	respondSuccess(w, http.StatusCreated, data)
}
