package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/pkg/metrics"
	"github.com/frontandrew/stationtime/internal/pkg/validate"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

// RecordReadingRequest - показание метеостанции
// Поля-указатели, чтобы отличать 0 от отсутствующего значения; границы включительно
type RecordReadingRequest struct {
	StationID   string   `json:"weather_station" validate:"required,uuid"`
	Temperature *float64 `json:"temperature" validate:"required,gte=-100,lte=100"`
	Humidity    *float64 `json:"humidity" validate:"required,gte=0,lte=100"`
	Pressure    *float64 `json:"pressure" validate:"required,gte=800,lte=1200"`
}

// Service содержит бизнес-логику приема показаний
type Service struct {
	stationRepo repository.WeatherStationRepository
	dataRepo    repository.WeatherDataRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр WeatherService
func NewService(
	stationRepo repository.WeatherStationRepository,
	dataRepo repository.WeatherDataRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		stationRepo: stationRepo,
		dataRepo:    dataRepo,
		logger:      logger,
	}
}

// RecordReading проверяет показание и сохраняет его
// Время показания выставляется при записи
func (s *Service) RecordReading(ctx context.Context, req *RecordReadingRequest) (*domain.WeatherData, error) {
	if err := validate.Struct(req); err != nil {
		metrics.ObserveWeatherReading("invalid")
		s.logger.Info("Weather reading rejected", map[string]interface{}{
			"station_id": req.StationID,
			"error":      err.Error(),
		})
		return nil, err
	}

	data := &domain.WeatherData{
		StationID:   uuid.MustParse(req.StationID),
		Temperature: *req.Temperature,
		Humidity:    *req.Humidity,
		Pressure:    *req.Pressure,
	}
	station, err := s.stationRepo.GetByID(ctx, data.StationID)
	if err != nil {
		if errors.Is(err, domain.ErrStationNotFound) {
			metrics.ObserveWeatherReading("invalid")
			return nil, stationError("Invalid weather station.")
		}
		return nil, fmt.Errorf("get station: %w", err)
	}
	if !station.IsActive {
		metrics.ObserveWeatherReading("invalid")
		return nil, stationError("Weather station is inactive.")
	}

	if err := s.dataRepo.Create(ctx, data); err != nil {
		s.logger.Error("Failed to store weather reading", map[string]interface{}{
			"station_id": data.StationID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("create weather data: %w", err)
	}

	metrics.ObserveWeatherReading("stored")
	s.logger.Debug("Weather reading stored", map[string]interface{}{
		"id":         data.ID,
		"station_id": data.StationID,
	})

	return data, nil
}

func stationError(msg string) error {
	verr := domain.NewValidationError()
	verr.Add("weather_station", msg)
	return verr
}
