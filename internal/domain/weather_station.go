package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WeatherStation - метеостанция, она же физическая точка отметки карт
// Неактивная станция отклоняется везде, где передается как входной параметр
type WeatherStation struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"-"`
}

// Validate проверяет корректность данных станции
func (s *WeatherStation) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" || len(name) > 50 {
		return ErrInvalidStationData
	}
	s.Name = name
	return nil
}
