package domain

import "github.com/google/uuid"

// TapStatus - результат отметки карты на станции
// Бизнес-отказы - это обычные значения, а не ошибки
type TapStatus string

const (
	TapSessionOpened         TapStatus = "SESSION_OPENED"
	TapSessionClosed         TapStatus = "SESSION_CLOSED"
	TapCardNotFound          TapStatus = "CARD_NOT_FOUND"
	TapCardInactive          TapStatus = "CARD_INACTIVE"
	TapInvalidStation        TapStatus = "INVALID_STATION"
	TapWrongEndStation       TapStatus = "WRONG_END_STATION"
	TapNoWorkSpaceForStation TapStatus = "NO_WORK_SPACE_FOR_STATION"
)

// IsSuccess проверяет, изменила ли отметка состояние сессии
func (s TapStatus) IsSuccess() bool {
	return s == TapSessionOpened || s == TapSessionClosed
}

// Message возвращает человекочитаемое описание результата
func (s TapStatus) Message() string {
	switch s {
	case TapSessionOpened:
		return "WorkTime started"
	case TapSessionClosed:
		return "WorkTime ended"
	case TapCardNotFound:
		return "Employee card not found"
	case TapCardInactive:
		return "Employee card is inactive"
	case TapInvalidStation:
		return "Invalid weather station"
	case TapWrongEndStation:
		return "Can't end WorkTime at this station"
	case TapNoWorkSpaceForStation:
		return "Can't start WorkTime at this station"
	default:
		return string(s)
	}
}

// TapResult - результат обработки отметки
type TapResult struct {
	Status     TapStatus  `json:"status"`
	Message    string     `json:"message"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty"`
	WorkTime   *WorkTime  `json:"work_time,omitempty"`
}

// NewTapResult создает результат с описанием по статусу
func NewTapResult(status TapStatus) *TapResult {
	return &TapResult{Status: status, Message: status.Message()}
}

// CardCheckStatus - результат проверки карты (check_card)
type CardCheckStatus string

const (
	CardCheckOK             CardCheckStatus = "OK"
	CardCheckNotFound       CardCheckStatus = "CARD_NOT_FOUND"
	CardCheckInactive       CardCheckStatus = "CARD_INACTIVE"
	CardCheckInvalidStation CardCheckStatus = "INVALID_STATION"
)

// Message возвращает человекочитаемое описание результата проверки
func (s CardCheckStatus) Message() string {
	switch s {
	case CardCheckOK:
		return "Card log created"
	case CardCheckNotFound:
		return "Employee card not found"
	case CardCheckInactive:
		return "Employee card is inactive"
	case CardCheckInvalidStation:
		return "Invalid weather station"
	default:
		return string(s)
	}
}
