package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeCardLog - неизменяемая запись об отметке карты
// StationID == nil, если отметка была без станции или станция удалена
type EmployeeCardLog struct {
	ID             uuid.UUID  `json:"id"`
	EmployeeCardID uuid.UUID  `json:"employee_card"`
	StationID      *uuid.UUID `json:"weather_station"`
	Date           time.Time  `json:"date"`
}

// Validate проверяет корректность данных лога
func (l *EmployeeCardLog) Validate() error {
	if l.EmployeeCardID == uuid.Nil {
		return ErrInvalidCardLogData
	}
	return nil
}
