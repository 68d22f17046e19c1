package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee - сотрудник, владелец карт доступа
// Сотрудник не удаляется в штатном режиме, is_active=false выключает его косвенно через карты
type Employee struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	PhoneNumber string    `json:"phone_number"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"-"`
}

// FullName возвращает имя и фамилию
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.Name + " " + e.Surname)
}

// Validate проверяет корректность данных сотрудника
func (e *Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Surname) == "" {
		return ErrInvalidEmployeeData
	}
	if len(e.Name) > 50 || len(e.Surname) > 50 || len(e.PhoneNumber) > 50 {
		return ErrInvalidEmployeeData
	}
	return nil
}
