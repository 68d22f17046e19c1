package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkTime - интервал рабочего времени сотрудника
// EndDate == nil означает ОТКРЫТУЮ сессию. У сотрудника не больше одной открытой сессии.
// Станции хранятся слабыми ссылками: при удалении станции поле обнуляется
type WorkTime struct {
	ID             uuid.UUID  `json:"id"`
	EmployeeID     uuid.UUID  `json:"employee_id"`
	WorkSpaceID    uuid.UUID  `json:"work_space_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	StartStationID *uuid.UUID `json:"start_station_id"`
	EndStationID   *uuid.UUID `json:"end_station_id"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Employee     *Employee       `json:"employee,omitempty"`
	WorkSpace    *WorkSpace      `json:"work_space,omitempty"`
	StartStation *WeatherStation `json:"start_station,omitempty"`
	EndStation   *WeatherStation `json:"end_station,omitempty"`
}

// NewWorkTime открывает сессию на станции начала рабочего пространства
func NewWorkTime(employeeID uuid.UUID, space *WorkSpace, stationID uuid.UUID, now time.Time) *WorkTime {
	return &WorkTime{
		EmployeeID:     employeeID,
		WorkSpaceID:    space.ID,
		StartDate:      now,
		StartStationID: &stationID,
		WorkSpace:      space,
	}
}

// IsOpen проверяет, открыта ли сессия
func (wt *WorkTime) IsOpen() bool {
	return wt.EndDate == nil
}

// Close закрывает сессию на указанной станции
func (wt *WorkTime) Close(stationID uuid.UUID, now time.Time) error {
	if !wt.IsOpen() {
		return ErrWorkTimeAlreadyEnded
	}
	// end_date не может быть раньше start_date даже при сдвиге часов
	if now.Before(wt.StartDate) {
		now = wt.StartDate
	}
	wt.EndDate = &now
	wt.EndStationID = &stationID
	return nil
}

// Duration возвращает длительность закрытой сессии
func (wt *WorkTime) Duration() time.Duration {
	if wt.EndDate == nil {
		return 0
	}
	return wt.EndDate.Sub(wt.StartDate)
}

// Validate проверяет корректность данных сессии
func (wt *WorkTime) Validate() error {
	if wt.EmployeeID == uuid.Nil || wt.WorkSpaceID == uuid.Nil {
		return ErrInvalidWorkTimeData
	}
	if wt.StartDate.IsZero() {
		return ErrInvalidWorkTimeData
	}
	if wt.EndDate != nil && wt.EndDate.Before(wt.StartDate) {
		return ErrInvalidWorkTimeData
	}
	return nil
}
