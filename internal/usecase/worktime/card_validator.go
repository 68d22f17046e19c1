package worktime

import (
	"context"
	"errors"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
)

// CardValidator разрешает номер карты в карту сотрудника
// "Не найдена" и "неактивна" - разные результаты, вызывающий различает их сам
type CardValidator struct {
	cards repository.EmployeeCardRepository
}

// NewCardValidator создает валидатор поверх репозитория карт (в транзакции или вне ее)
func NewCardValidator(cards repository.EmployeeCardRepository) *CardValidator {
	return &CardValidator{cards: cards}
}

// Resolve ищет карту по номеру; при отсутствии возвращает domain.ErrCardNotFound
func (v *CardValidator) Resolve(ctx context.Context, cardNumber string) (*domain.EmployeeCard, error) {
	number := domain.NormalizeCardNumber(cardNumber)
	if number == "" {
		return nil, domain.ErrCardNotFound
	}
	return v.cards.GetByCardNumber(ctx, number)
}

// IsUsable проверяет, можно ли отмечаться картой
func (v *CardValidator) IsUsable(card *domain.EmployeeCard) bool {
	return card.IsUsable()
}

// Check разрешает карту и сводит результат к статусу проверки
// Инфраструктурные ошибки возвращаются как есть
func (v *CardValidator) Check(ctx context.Context, cardNumber string) (*domain.EmployeeCard, domain.CardCheckStatus, error) {
	card, err := v.Resolve(ctx, cardNumber)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return nil, domain.CardCheckNotFound, nil
		}
		return nil, "", err
	}
	if !v.IsUsable(card) {
		return card, domain.CardCheckInactive, nil
	}
	return card, domain.CardCheckOK, nil
}
