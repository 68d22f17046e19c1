package repository

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/google/uuid"
)

// ErrTxConflict - транзакция не выполнена из-за конкурентного доступа, ее можно повторить
var ErrTxConflict = errors.New("transaction conflict")

// Page - параметры пагинации
type Page struct {
	Limit  int
	Offset int
}

// DateRange - фильтр по дате (границы включительно, nil = без ограничения)
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains проверяет попадание времени в диапазон
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// WeatherDataFilter - фильтр показаний метеостанций
type WeatherDataFilter struct {
	StationID *uuid.UUID
	DateRange
	Page
}

// CardLogFilter - фильтр логов отметок карт
type CardLogFilter struct {
	StationID *uuid.UUID
	CardID    *uuid.UUID
	DateRange
	Page
}

// WorkTimeFilter - фильтр рабочих сессий
// DateRange.From ограничивает start_date, DateRange.To ограничивает end_date
type WorkTimeFilter struct {
	EmployeeID  *uuid.UUID
	WorkSpaceID *uuid.UUID
	DateRange
	Page
}

// EmployeeRepository определяет методы для работы с сотрудниками
type EmployeeRepository interface {
	// Create создает нового сотрудника
	Create(ctx context.Context, employee *domain.Employee) error

	// GetByID возвращает сотрудника по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)

	// List возвращает список сотрудников
	List(ctx context.Context, page Page) ([]*domain.Employee, error)

	// Delete удаляет сотрудника вместе с картами, их логами и рабочими сессиями
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeCardRepository определяет методы для работы с картами сотрудников
type EmployeeCardRepository interface {
	// Create создает новую карту
	Create(ctx context.Context, card *domain.EmployeeCard) error

	// GetByID возвращает карту по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EmployeeCard, error)

	// GetByCardNumber возвращает карту по номеру
	// При дубликатах номера возвращается самая ранняя карта
	GetByCardNumber(ctx context.Context, cardNumber string) (*domain.EmployeeCard, error)

	// SetActive включает или выключает карту
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// List возвращает список карт
	List(ctx context.Context, page Page) ([]*domain.EmployeeCard, error)

	// ListByEmployee возвращает все карты сотрудника
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*domain.EmployeeCard, error)
}

// WeatherStationRepository определяет методы для работы с метеостанциями
type WeatherStationRepository interface {
	// Create создает новую станцию
	Create(ctx context.Context, station *domain.WeatherStation) error

	// GetByID возвращает станцию по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WeatherStation, error)

	// SetActive включает или выключает станцию
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// List возвращает список станций
	List(ctx context.Context, page Page) ([]*domain.WeatherStation, error)

	// Delete удаляет станцию явным проходом: обнуляет ссылки в логах карт и рабочих сессиях,
	// удаляет рабочие пространства станции (и их сессии) и показания станции
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkSpaceRepository определяет методы для работы с рабочими пространствами
type WorkSpaceRepository interface {
	// Create создает новое рабочее пространство
	Create(ctx context.Context, space *domain.WorkSpace) error

	// GetByID возвращает рабочее пространство по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSpace, error)

	// GetByStartStation возвращает рабочие пространства, начинающиеся на станции,
	// в порядке создания
	GetByStartStation(ctx context.Context, stationID uuid.UUID) ([]*domain.WorkSpace, error)
}

// WorkTimeRepository определяет методы для работы с рабочими сессиями
type WorkTimeRepository interface {
	// LockEmployee берет эксклюзивную блокировку сотрудника до конца транзакции
	// КЛЮЧЕВОЙ МЕТОД для инварианта "не больше одной открытой сессии"
	LockEmployee(ctx context.Context, employeeID uuid.UUID) error

	// Create создает новую сессию
	Create(ctx context.Context, workTime *domain.WorkTime) error

	// GetByID возвращает сессию по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkTime, error)

	// GetOpenByEmployee возвращает открытую сессию сотрудника или ErrWorkTimeNotFound
	GetOpenByEmployee(ctx context.Context, employeeID uuid.UUID) (*domain.WorkTime, error)

	// Close сохраняет end_date и end_station закрытой сессии
	Close(ctx context.Context, workTime *domain.WorkTime) error

	// List возвращает сессии по фильтру, новые первыми
	List(ctx context.Context, filter WorkTimeFilter) ([]*domain.WorkTime, error)

	// CountOpen возвращает количество открытых сессий
	CountOpen(ctx context.Context) (int, error)
}

// EmployeeCardLogRepository определяет методы для работы с логами отметок карт
type EmployeeCardLogRepository interface {
	// Create создает новую запись лога
	Create(ctx context.Context, log *domain.EmployeeCardLog) error

	// GetByID возвращает запись лога по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EmployeeCardLog, error)

	// List возвращает логи по фильтру, новые первыми
	List(ctx context.Context, filter CardLogFilter) ([]*domain.EmployeeCardLog, error)
}

// WeatherDataRepository определяет методы для работы с показаниями
type WeatherDataRepository interface {
	// Create сохраняет показание
	Create(ctx context.Context, data *domain.WeatherData) error

	// GetByID возвращает показание по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WeatherData, error)

	// List возвращает показания по фильтру, новые первыми
	List(ctx context.Context, filter WeatherDataFilter) ([]*domain.WeatherData, error)
}

// Store - набор репозиториев, привязанных к одному подключению или транзакции
type Store interface {
	Employees() EmployeeRepository
	Cards() EmployeeCardRepository
	Stations() WeatherStationRepository
	WorkSpaces() WorkSpaceRepository
	WorkTimes() WorkTimeRepository
	CardLogs() EmployeeCardLogRepository
	WeatherData() WeatherDataRepository
}

// TxManager выполняет функцию в транзакции
// Если fn возвращает ошибку, транзакция откатывается
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
