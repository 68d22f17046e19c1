package cached

import (
	"context"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

// StationRepository добавляет кэширование к репозиторию станций
type StationRepository struct {
	repository.WeatherStationRepository
	cache   Cache
	log     logger.Logger
	pending *pendingKeys
}

// NewStationRepository создает кэшируемый репозиторий станций
func NewStationRepository(repo repository.WeatherStationRepository, cache Cache, log logger.Logger) *StationRepository {
	return &StationRepository{WeatherStationRepository: repo, cache: cache, log: log}
}

// cachedStation - представление станции в кэше (CreatedAt скрыт из JSON домена)
type cachedStation struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

// GetByID получает станцию по ID (с кэшированием)
func (r *StationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WeatherStation, error) {
	key := stationCachePrefix + id.String()

	// ключ уже изменен в текущей транзакции: кэш ей не подходит
	if r.pending.has(key) {
		return r.WeatherStationRepository.GetByID(ctx, id)
	}

	var c cachedStation
	if load(ctx, r.cache, r.log, key, &c) {
		return &domain.WeatherStation{ID: c.ID, Name: c.Name, IsActive: c.IsActive}, nil
	}

	station, err := r.WeatherStationRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	save(ctx, r.cache, key, cachedStation{ID: station.ID, Name: station.Name, IsActive: station.IsActive})
	return station, nil
}

// SetActive меняет флаг активности и инвалидирует кэш
func (r *StationRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := r.WeatherStationRepository.SetActive(ctx, id, active); err != nil {
		return err
	}
	invalidate(ctx, r.cache, r.pending, stationCachePrefix+id.String())
	return nil
}

// Delete удаляет станцию и инвалидирует кэш
func (r *StationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.WeatherStationRepository.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, r.cache, r.pending, stationCachePrefix+id.String())
	return nil
}
