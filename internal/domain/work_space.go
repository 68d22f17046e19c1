package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkSpace - допустимая пара станций (начало, конец) для рабочей сессии
// Сессия открывается на StartStationID и закрывается только на EndStationID
type WorkSpace struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	StartStationID uuid.UUID `json:"start_station_id"`
	EndStationID   uuid.UUID `json:"end_station_id"`
	CreatedAt      time.Time `json:"-"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	StartStation *WeatherStation `json:"start_station,omitempty"`
	EndStation   *WeatherStation `json:"end_station,omitempty"`
}

// IsEndStation проверяет, закрывает ли станция сессию этого рабочего пространства
func (w *WorkSpace) IsEndStation(stationID uuid.UUID) bool {
	return w.EndStationID == stationID
}

// Validate проверяет корректность данных рабочего пространства
func (w *WorkSpace) Validate() error {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" || len(w.Name) > 50 {
		return ErrInvalidWorkSpaceData
	}
	if w.StartStationID == uuid.Nil || w.EndStationID == uuid.Nil {
		return ErrInvalidWorkSpaceData
	}
	return nil
}
