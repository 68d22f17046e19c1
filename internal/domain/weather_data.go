package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeatherData - неизменяемое показание метеостанции
// Date выставляется сервером в момент записи
type WeatherData struct {
	ID          uuid.UUID `json:"id"`
	StationID   uuid.UUID `json:"weather_station"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	Date        time.Time `json:"date"`
}
