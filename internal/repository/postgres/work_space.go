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

type workSpaceRepository struct {
	db DBTX
}

func NewWorkSpaceRepository(db DBTX) repository.WorkSpaceRepository {
	return &workSpaceRepository{db: db}
}

func (r *workSpaceRepository) Create(ctx context.Context, space *domain.WorkSpace) error {
	query := `
		INSERT INTO work_spaces (id, name, start_station_id, end_station_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	space.ID = uuid.New()
	space.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		space.ID,
		space.Name,
		space.StartStationID,
		space.EndStationID,
		space.CreatedAt,
	)

	return err
}

func (r *workSpaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSpace, error) {
	query := `
		SELECT id, name, start_station_id, end_station_id, created_at
		FROM work_spaces
		WHERE id = $1
	`

	space := &domain.WorkSpace{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&space.ID,
		&space.Name,
		&space.StartStationID,
		&space.EndStationID,
		&space.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkSpaceNotFound
		}
		return nil, err
	}

	return space, nil
}

// GetByStartStation - порядок создания задает выбор при нескольких совпадениях
func (r *workSpaceRepository) GetByStartStation(ctx context.Context, stationID uuid.UUID) ([]*domain.WorkSpace, error) {
	query := `
		SELECT id, name, start_station_id, end_station_id, created_at
		FROM work_spaces
		WHERE start_station_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spaces []*domain.WorkSpace
	for rows.Next() {
		space := &domain.WorkSpace{}
		err := rows.Scan(
			&space.ID,
			&space.Name,
			&space.StartStationID,
			&space.EndStationID,
			&space.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, space)
	}

	return spaces, rows.Err()
}
