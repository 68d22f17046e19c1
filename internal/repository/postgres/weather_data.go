package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type weatherDataRepository struct {
	db DBTX
}

func NewWeatherDataRepository(db DBTX) repository.WeatherDataRepository {
	return &weatherDataRepository{db: db}
}

func (r *weatherDataRepository) Create(ctx context.Context, data *domain.WeatherData) error {
	query := `
		INSERT INTO weather_data (id, weather_station_id, temperature, humidity, pressure, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	data.ID = uuid.New()
	if data.Date.IsZero() {
		data.Date = time.Now()
	}

	_, err := r.db.Exec(ctx, query,
		data.ID,
		data.StationID,
		data.Temperature,
		data.Humidity,
		data.Pressure,
		data.Date,
	)

	return err
}

func (r *weatherDataRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WeatherData, error) {
	query := `
		SELECT id, weather_station_id, temperature, humidity, pressure, date
		FROM weather_data
		WHERE id = $1
	`

	data := &domain.WeatherData{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&data.ID,
		&data.StationID,
		&data.Temperature,
		&data.Humidity,
		&data.Pressure,
		&data.Date,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWeatherDataNotFound
		}
		return nil, err
	}

	return data, nil
}

func (r *weatherDataRepository) List(ctx context.Context, filter repository.WeatherDataFilter) ([]*domain.WeatherData, error) {
	query := `
		SELECT id, weather_station_id, temperature, humidity, pressure, date
		FROM weather_data
		WHERE ($1::uuid IS NULL OR weather_station_id = $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC
		LIMIT NULLIF($4, 0) OFFSET $5
	`

	rows, err := r.db.Query(ctx, query, filter.StationID, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []*domain.WeatherData
	for rows.Next() {
		data := &domain.WeatherData{}
		err := rows.Scan(
			&data.ID,
			&data.StationID,
			&data.Temperature,
			&data.Humidity,
			&data.Pressure,
			&data.Date,
		)
		if err != nil {
			return nil, err
		}
		readings = append(readings, data)
	}

	return readings, rows.Err()
}
