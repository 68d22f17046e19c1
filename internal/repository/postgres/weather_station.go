package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type weatherStationRepository struct {
	db DBTX
}

func NewWeatherStationRepository(db DBTX) repository.WeatherStationRepository {
	return &weatherStationRepository{db: db}
}

func (r *weatherStationRepository) Create(ctx context.Context, station *domain.WeatherStation) error {
	query := `
		INSERT INTO weather_stations (id, name, is_active, created_at)
		VALUES ($1, $2, $3, $4)
	`

	station.ID = uuid.New()
	station.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query, station.ID, station.Name, station.IsActive, station.CreatedAt)
	return err
}

func (r *weatherStationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WeatherStation, error) {
	query := `
		SELECT id, name, is_active, created_at
		FROM weather_stations
		WHERE id = $1
	`

	station := &domain.WeatherStation{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&station.ID,
		&station.Name,
		&station.IsActive,
		&station.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStationNotFound
		}
		return nil, err
	}

	return station, nil
}

func (r *weatherStationRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE weather_stations SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStationNotFound
	}

	return nil
}

func (r *weatherStationRepository) List(ctx context.Context, page repository.Page) ([]*domain.WeatherStation, error) {
	query := `
		SELECT id, name, is_active, created_at
		FROM weather_stations
		ORDER BY created_at, id
		LIMIT NULLIF($1, 0) OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []*domain.WeatherStation
	for rows.Next() {
		station := &domain.WeatherStation{}
		if err := rows.Scan(&station.ID, &station.Name, &station.IsActive, &station.CreatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}

	return stations, rows.Err()
}

// Delete - явный проход по слабым ссылкам вместо ON DELETE SET NULL
// Должен вызываться внутри транзакции
func (r *weatherStationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	pass := []string{
		// Слабые ссылки обнуляются
		`UPDATE employee_card_logs SET weather_station_id = NULL WHERE weather_station_id = $1`,
		`UPDATE work_times SET start_station_id = NULL WHERE start_station_id = $1`,
		`UPDATE work_times SET end_station_id = NULL WHERE end_station_id = $1`,
		// Рабочие пространства станции удаляются вместе со своими сессиями
		`DELETE FROM work_times
		 WHERE work_space_id IN (SELECT id FROM work_spaces WHERE start_station_id = $1 OR end_station_id = $1)`,
		`DELETE FROM work_spaces WHERE start_station_id = $1 OR end_station_id = $1`,
		`DELETE FROM weather_data WHERE weather_station_id = $1`,
	}

	for _, query := range pass {
		if _, err := r.db.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("failed to detach weather station: %w", err)
		}
	}

	result, err := r.db.Exec(ctx, `DELETE FROM weather_stations WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStationNotFound
	}

	return nil
}
