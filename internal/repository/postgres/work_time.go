package postgres

import (
	"context"
	"errors"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type workTimeRepository struct {
	db DBTX
}

func NewWorkTimeRepository(db DBTX) repository.WorkTimeRepository {
	return &workTimeRepository{db: db}
}

// LockEmployee блокирует строку сотрудника до конца транзакции
// Отметки разных сотрудников друг друга не блокируют
func (r *workTimeRepository) LockEmployee(ctx context.Context, employeeID uuid.UUID) error {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, employeeID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEmployeeNotFound
		}
		return err
	}

	return nil
}

func (r *workTimeRepository) Create(ctx context.Context, workTime *domain.WorkTime) error {
	query := `
		INSERT INTO work_times (id, employee_id, work_space_id, start_date, end_date, start_station_id, end_station_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	workTime.ID = uuid.New()

	_, err := r.db.Exec(ctx, query,
		workTime.ID,
		workTime.EmployeeID,
		workTime.WorkSpaceID,
		workTime.StartDate,
		workTime.EndDate,
		workTime.StartStationID,
		workTime.EndStationID,
	)

	return err
}

func (r *workTimeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkTime, error) {
	query := `
		SELECT id, employee_id, work_space_id, start_date, end_date, start_station_id, end_station_id
		FROM work_times
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *workTimeRepository) GetOpenByEmployee(ctx context.Context, employeeID uuid.UUID) (*domain.WorkTime, error) {
	query := `
		SELECT id, employee_id, work_space_id, start_date, end_date, start_station_id, end_station_id
		FROM work_times
		WHERE employee_id = $1 AND end_date IS NULL
	`

	return r.scanOne(r.db.QueryRow(ctx, query, employeeID))
}

// Close обновляет только открытую сессию, повторное закрытие не проходит
func (r *workTimeRepository) Close(ctx context.Context, workTime *domain.WorkTime) error {
	query := `
		UPDATE work_times
		SET end_date = $2, end_station_id = $3
		WHERE id = $1 AND end_date IS NULL
	`

	result, err := r.db.Exec(ctx, query, workTime.ID, workTime.EndDate, workTime.EndStationID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWorkTimeNotFound
	}

	return nil
}

func (r *workTimeRepository) List(ctx context.Context, filter repository.WorkTimeFilter) ([]*domain.WorkTime, error) {
	query := `
		SELECT id, employee_id, work_space_id, start_date, end_date, start_station_id, end_station_id
		FROM work_times
		WHERE ($1::uuid IS NULL OR employee_id = $1)
		  AND ($2::uuid IS NULL OR work_space_id = $2)
		  AND ($3::timestamptz IS NULL OR start_date >= $3)
		  AND ($4::timestamptz IS NULL OR end_date <= $4)
		ORDER BY start_date DESC
		LIMIT NULLIF($5, 0) OFFSET $6
	`

	rows, err := r.db.Query(ctx, query,
		filter.EmployeeID,
		filter.WorkSpaceID,
		filter.From,
		filter.To,
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workTimes []*domain.WorkTime
	for rows.Next() {
		workTime := &domain.WorkTime{}
		err := rows.Scan(
			&workTime.ID,
			&workTime.EmployeeID,
			&workTime.WorkSpaceID,
			&workTime.StartDate,
			&workTime.EndDate,
			&workTime.StartStationID,
			&workTime.EndStationID,
		)
		if err != nil {
			return nil, err
		}
		workTimes = append(workTimes, workTime)
	}

	return workTimes, rows.Err()
}

func (r *workTimeRepository) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM work_times WHERE end_date IS NULL`).Scan(&count)
	return count, err
}

func (r *workTimeRepository) scanOne(row pgx.Row) (*domain.WorkTime, error) {
	workTime := &domain.WorkTime{}
	err := row.Scan(
		&workTime.ID,
		&workTime.EmployeeID,
		&workTime.WorkSpaceID,
		&workTime.StartDate,
		&workTime.EndDate,
		&workTime.StartStationID,
		&workTime.EndStationID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkTimeNotFound
		}
		return nil, err
	}

	return workTime, nil
}
