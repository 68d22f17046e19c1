package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmployeeCard - карта сотрудника (способ идентификации при отметке на станции)
// ВАЖНО: карта ОБЯЗАТЕЛЬНО принадлежит сотруднику (EmployeeID NOT NULL)
type EmployeeCard struct {
	ID         uuid.UUID `json:"id"`
	CardNumber string    `json:"card_number"`
	EmployeeID uuid.UUID `json:"employee"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"-"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Employee *Employee `json:"-"`
}

// IsUsable проверяет, можно ли использовать карту для отметок
func (c *EmployeeCard) IsUsable() bool {
	return c.IsActive
}

// NormalizeCardNumber убирает пробелы по краям номера карты
func NormalizeCardNumber(number string) string {
	return strings.TrimSpace(number)
}

// Validate проверяет корректность данных карты
func (c *EmployeeCard) Validate() error {
	if c.EmployeeID == uuid.Nil {
		return ErrInvalidCardData
	}
	c.CardNumber = NormalizeCardNumber(c.CardNumber)
	if c.CardNumber == "" || len(c.CardNumber) > 50 {
		return ErrInvalidCardData
	}
	return nil
}
