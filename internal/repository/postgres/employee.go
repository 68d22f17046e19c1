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

// employeeRepository - PostgreSQL реализация EmployeeRepository
type employeeRepository struct {
	db DBTX
}

// NewEmployeeRepository создает новый экземпляр employeeRepository
func NewEmployeeRepository(db DBTX) repository.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (id, name, surname, phone_number, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	employee.ID = uuid.New()
	employee.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		employee.ID,
		employee.Name,
		employee.Surname,
		employee.PhoneNumber,
		employee.IsActive,
		employee.CreatedAt,
	)

	return err
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	query := `
		SELECT id, name, surname, phone_number, is_active, created_at
		FROM employees
		WHERE id = $1
	`

	employee := &domain.Employee{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Surname,
		&employee.PhoneNumber,
		&employee.IsActive,
		&employee.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}

	return employee, nil
}

func (r *employeeRepository) List(ctx context.Context, page repository.Page) ([]*domain.Employee, error) {
	query := `
		SELECT id, name, surname, phone_number, is_active, created_at
		FROM employees
		ORDER BY surname, name, id
		LIMIT NULLIF($1, 0) OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*domain.Employee
	for rows.Next() {
		employee := &domain.Employee{}
		err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Surname,
			&employee.PhoneNumber,
			&employee.IsActive,
			&employee.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	return employees, rows.Err()
}

// Delete удаляет сотрудника каскадно: логи карт, карты, рабочие сессии
// Должен вызываться внутри транзакции
func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cascade := []string{
		`DELETE FROM employee_card_logs
		 WHERE employee_card_id IN (SELECT id FROM employee_cards WHERE employee_id = $1)`,
		`DELETE FROM employee_cards WHERE employee_id = $1`,
		`DELETE FROM work_times WHERE employee_id = $1`,
	}

	for _, query := range cascade {
		if _, err := r.db.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("failed to cascade employee delete: %w", err)
		}
	}

	result, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}

	return nil
}
