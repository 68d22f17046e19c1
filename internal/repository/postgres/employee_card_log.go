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

// Имя FK по умолчанию, которое PostgreSQL дает employee_card_logs.employee_card_id
const cardLogCardFK = "employee_card_logs_employee_card_id_fkey"

type employeeCardLogRepository struct {
	db DBTX
}

func NewEmployeeCardLogRepository(db DBTX) repository.EmployeeCardLogRepository {
	return &employeeCardLogRepository{db: db}
}

func (r *employeeCardLogRepository) Create(ctx context.Context, log *domain.EmployeeCardLog) error {
	query := `
		INSERT INTO employee_card_logs (id, employee_card_id, weather_station_id, date)
		VALUES ($1, $2, $3, $4)
	`

	log.ID = uuid.New()
	if log.Date.IsZero() {
		log.Date = time.Now()
	}

	_, err := r.db.Exec(ctx, query, log.ID, log.EmployeeCardID, log.StationID, log.Date)
	if isForeignKeyViolation(err, cardLogCardFK) {
		return domain.ErrCardNotFound
	}
	return err
}

func (r *employeeCardLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmployeeCardLog, error) {
	query := `
		SELECT id, employee_card_id, weather_station_id, date
		FROM employee_card_logs
		WHERE id = $1
	`

	log := &domain.EmployeeCardLog{}
	err := r.db.QueryRow(ctx, query, id).Scan(&log.ID, &log.EmployeeCardID, &log.StationID, &log.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardLogNotFound
		}
		return nil, err
	}

	return log, nil
}

func (r *employeeCardLogRepository) List(ctx context.Context, filter repository.CardLogFilter) ([]*domain.EmployeeCardLog, error) {
	query := `
		SELECT id, employee_card_id, weather_station_id, date
		FROM employee_card_logs
		WHERE ($1::uuid IS NULL OR weather_station_id = $1)
		  AND ($2::uuid IS NULL OR employee_card_id = $2)
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date <= $4)
		ORDER BY date DESC
		LIMIT NULLIF($5, 0) OFFSET $6
	`

	rows, err := r.db.Query(ctx, query,
		filter.StationID,
		filter.CardID,
		filter.From,
		filter.To,
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.EmployeeCardLog
	for rows.Next() {
		log := &domain.EmployeeCardLog{}
		if err := rows.Scan(&log.ID, &log.EmployeeCardID, &log.StationID, &log.Date); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
