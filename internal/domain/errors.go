package domain

import (
	"errors"
	"sort"
	"strings"
)

// Доменные ошибки - используются во всех слоях приложения

// Employee errors
var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrInvalidEmployeeData = errors.New("invalid employee data")
)

// EmployeeCard errors
var (
	ErrCardNotFound    = errors.New("employee card not found")
	ErrInvalidCardData = errors.New("invalid employee card data")
)

// WeatherStation errors
var (
	ErrStationNotFound    = errors.New("weather station not found")
	ErrInvalidStationData = errors.New("invalid weather station data")
)

// WorkSpace errors
var (
	ErrWorkSpaceNotFound    = errors.New("work space not found")
	ErrInvalidWorkSpaceData = errors.New("invalid work space data")
)

// WorkTime errors
var (
	ErrWorkTimeNotFound     = errors.New("work time not found")
	ErrInvalidWorkTimeData  = errors.New("invalid work time data")
	ErrWorkTimeAlreadyEnded = errors.New("work time already ended")
	ErrOpenWorkTimeExists   = errors.New("employee already has an open work time")
)

// EmployeeCardLog errors
var (
	ErrCardLogNotFound    = errors.New("employee card log not found")
	ErrInvalidCardLogData = errors.New("invalid employee card log data")
)

// WeatherData errors
var (
	ErrWeatherDataNotFound = errors.New("weather data not found")
)

// ValidationError - ошибка валидации с описанием по каждому полю
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidationError создает пустую ошибку валидации
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add добавляет ошибку для поля
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// HasErrors возвращает true, если есть хотя бы одна ошибка
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
