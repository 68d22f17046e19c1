package cached

import (
	"context"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

// CardRepository добавляет кэширование поиска карты по номеру
type CardRepository struct {
	repository.EmployeeCardRepository
	cache   Cache
	log     logger.Logger
	pending *pendingKeys
}

// NewCardRepository создает кэшируемый репозиторий карт
func NewCardRepository(repo repository.EmployeeCardRepository, cache Cache, log logger.Logger) *CardRepository {
	return &CardRepository{EmployeeCardRepository: repo, cache: cache, log: log}
}

type cachedCard struct {
	ID         uuid.UUID `json:"id"`
	CardNumber string    `json:"card_number"`
	EmployeeID uuid.UUID `json:"employee_id"`
	IsActive   bool      `json:"is_active"`
}

// GetByCardNumber получает карту по номеру (с кэшированием)
// Отсутствие карты не кэшируется
func (r *CardRepository) GetByCardNumber(ctx context.Context, cardNumber string) (*domain.EmployeeCard, error) {
	key := cardKey(cardNumber)

	if r.pending.has(key) {
		return r.EmployeeCardRepository.GetByCardNumber(ctx, cardNumber)
	}

	var c cachedCard
	if load(ctx, r.cache, r.log, key, &c) {
		return &domain.EmployeeCard{ID: c.ID, CardNumber: c.CardNumber, EmployeeID: c.EmployeeID, IsActive: c.IsActive}, nil
	}

	card, err := r.EmployeeCardRepository.GetByCardNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	save(ctx, r.cache, key, cachedCard{ID: card.ID, CardNumber: card.CardNumber, EmployeeID: card.EmployeeID, IsActive: card.IsActive})
	return card, nil
}

// Create создает карту и сбрасывает кэш ее номера
func (r *CardRepository) Create(ctx context.Context, card *domain.EmployeeCard) error {
	if err := r.EmployeeCardRepository.Create(ctx, card); err != nil {
		return err
	}
	invalidate(ctx, r.cache, r.pending, cardKey(card.CardNumber))
	return nil
}

// SetActive меняет флаг активности и инвалидирует кэш номера карты
func (r *CardRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := r.EmployeeCardRepository.SetActive(ctx, id, active); err != nil {
		return err
	}

	card, err := r.EmployeeCardRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	invalidate(ctx, r.cache, r.pending, cardKey(card.CardNumber))
	return nil
}

func cardKey(cardNumber string) string {
	return cardCachePrefix + domain.NormalizeCardNumber(cardNumber)
}
