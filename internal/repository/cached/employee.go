package cached

import (
	"context"

	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

// EmployeeRepository сбрасывает кэш номеров карт при удалении сотрудника
type EmployeeRepository struct {
	repository.EmployeeRepository
	cards   repository.EmployeeCardRepository
	cache   Cache
	pending *pendingKeys
}

// NewEmployeeRepository создает репозиторий сотрудников с инвалидацией кэша карт
func NewEmployeeRepository(repo repository.EmployeeRepository, cards repository.EmployeeCardRepository, cache Cache) *EmployeeRepository {
	return &EmployeeRepository{EmployeeRepository: repo, cards: cards, cache: cache}
}

// Delete удаляет сотрудника вместе с картами; номера карт читаются до удаления
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cards, err := r.cards.ListByEmployee(ctx, id)
	if err != nil {
		return err
	}

	if err := r.EmployeeRepository.Delete(ctx, id); err != nil {
		return err
	}

	keys := make([]string, 0, len(cards))
	for _, card := range cards {
		keys = append(keys, cardKey(card.CardNumber))
	}
	invalidate(ctx, r.cache, r.pending, keys...)
	return nil
}
