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

type employeeCardRepository struct {
	db DBTX
}

func NewEmployeeCardRepository(db DBTX) repository.EmployeeCardRepository {
	return &employeeCardRepository{db: db}
}

func (r *employeeCardRepository) Create(ctx context.Context, card *domain.EmployeeCard) error {
	query := `
		INSERT INTO employee_cards (id, card_number, employee_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	card.ID = uuid.New()
	card.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		card.ID,
		card.CardNumber,
		card.EmployeeID,
		card.IsActive,
		card.CreatedAt,
	)

	return err
}

func (r *employeeCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmployeeCard, error) {
	query := `
		SELECT id, card_number, employee_id, is_active, created_at
		FROM employee_cards
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByCardNumber - номер карты не уникален на уровне схемы, берем самую раннюю
func (r *employeeCardRepository) GetByCardNumber(ctx context.Context, cardNumber string) (*domain.EmployeeCard, error) {
	query := `
		SELECT id, card_number, employee_id, is_active, created_at
		FROM employee_cards
		WHERE card_number = $1
		ORDER BY created_at, id
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, domain.NormalizeCardNumber(cardNumber)))
}

func (r *employeeCardRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE employee_cards SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}

func (r *employeeCardRepository) List(ctx context.Context, page repository.Page) ([]*domain.EmployeeCard, error) {
	query := `
		SELECT id, card_number, employee_id, is_active, created_at
		FROM employee_cards
		ORDER BY created_at, id
		LIMIT NULLIF($1, 0) OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.EmployeeCard
	for rows.Next() {
		card := &domain.EmployeeCard{}
		if err := rows.Scan(&card.ID, &card.CardNumber, &card.EmployeeID, &card.IsActive, &card.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

func (r *employeeCardRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*domain.EmployeeCard, error) {
	query := `
		SELECT id, card_number, employee_id, is_active, created_at
		FROM employee_cards
		WHERE employee_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.EmployeeCard
	for rows.Next() {
		card := &domain.EmployeeCard{}
		if err := rows.Scan(&card.ID, &card.CardNumber, &card.EmployeeID, &card.IsActive, &card.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

func (r *employeeCardRepository) scanOne(row pgx.Row) (*domain.EmployeeCard, error) {
	card := &domain.EmployeeCard{}
	err := row.Scan(&card.ID, &card.CardNumber, &card.EmployeeID, &card.IsActive, &card.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}

	return card, nil
}
