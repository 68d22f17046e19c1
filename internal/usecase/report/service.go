package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

// StationData - станция вместе с показаниями
type StationData struct {
	*domain.WeatherStation
	WeatherData []*domain.WeatherData `json:"weather_data"`
}

// CardData - карта вместе с сотрудником и логами отметок
type CardData struct {
	*domain.EmployeeCard
	Employee *domain.Employee          `json:"employee"`
	Logs     []*domain.EmployeeCardLog `json:"employee_card_logs"`
}

// Service - чтение и отчеты, ничего не изменяет
type Service struct {
	store  repository.Store
	logger logger.Logger
}

// NewService создает новый экземпляр ReportService
func NewService(store repository.Store, logger logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// ListWeatherData возвращает показания по фильтру
func (s *Service) ListWeatherData(ctx context.Context, filter repository.WeatherDataFilter) ([]*domain.WeatherData, error) {
	return s.store.WeatherData().List(ctx, filter)
}

// GetWeatherData возвращает показание по ID
func (s *Service) GetWeatherData(ctx context.Context, id uuid.UUID) (*domain.WeatherData, error) {
	return s.store.WeatherData().GetByID(ctx, id)
}

// ListStations возвращает список станций
func (s *Service) ListStations(ctx context.Context, page repository.Page) ([]*domain.WeatherStation, error) {
	return s.store.Stations().List(ctx, page)
}

// GetStation возвращает станцию по ID
func (s *Service) GetStation(ctx context.Context, id uuid.UUID) (*domain.WeatherStation, error) {
	return s.store.Stations().GetByID(ctx, id)
}

// GetStationData возвращает станцию с ее показаниями
func (s *Service) GetStationData(ctx context.Context, id uuid.UUID, filter repository.WeatherDataFilter) (*StationData, error) {
	station, err := s.store.Stations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	filter.StationID = &station.ID
	data, err := s.store.WeatherData().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list weather data: %w", err)
	}

	return &StationData{WeatherStation: station, WeatherData: data}, nil
}

// ListEmployees возвращает список сотрудников
func (s *Service) ListEmployees(ctx context.Context, page repository.Page) ([]*domain.Employee, error) {
	return s.store.Employees().List(ctx, page)
}

// GetEmployee возвращает сотрудника по ID
func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return s.store.Employees().GetByID(ctx, id)
}

// ListCards возвращает список карт
func (s *Service) ListCards(ctx context.Context, page repository.Page) ([]*domain.EmployeeCard, error) {
	return s.store.Cards().List(ctx, page)
}

// GetCard возвращает карту по ID
func (s *Service) GetCard(ctx context.Context, id uuid.UUID) (*domain.EmployeeCard, error) {
	return s.store.Cards().GetByID(ctx, id)
}

// GetCardData возвращает карту с сотрудником и логами отметок
func (s *Service) GetCardData(ctx context.Context, id uuid.UUID, filter repository.CardLogFilter) (*CardData, error) {
	card, err := s.store.Cards().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	employee, err := s.store.Employees().GetByID(ctx, card.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("get card employee: %w", err)
	}

	filter.CardID = &card.ID
	logs, err := s.store.CardLogs().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list card logs: %w", err)
	}

	return &CardData{EmployeeCard: card, Employee: employee, Logs: logs}, nil
}

// ListCardLogs возвращает логи отметок по фильтру
func (s *Service) ListCardLogs(ctx context.Context, filter repository.CardLogFilter) ([]*domain.EmployeeCardLog, error) {
	return s.store.CardLogs().List(ctx, filter)
}

// GetCardLog возвращает лог отметки по ID
func (s *Service) GetCardLog(ctx context.Context, id uuid.UUID) (*domain.EmployeeCardLog, error) {
	return s.store.CardLogs().GetByID(ctx, id)
}

// ListWorkTimes возвращает рабочие сессии с вложенными сотрудником, пространством и станциями
func (s *Service) ListWorkTimes(ctx context.Context, filter repository.WorkTimeFilter) ([]*domain.WorkTime, error) {
	workTimes, err := s.store.WorkTimes().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	r := newResolver(s.store)
	for _, wt := range workTimes {
		if err := r.expand(ctx, wt); err != nil {
			return nil, err
		}
	}

	return workTimes, nil
}

// resolver подгружает связанные сущности, запоминая уже загруженные
type resolver struct {
	store     repository.Store
	employees map[uuid.UUID]*domain.Employee
	spaces    map[uuid.UUID]*domain.WorkSpace
	stations  map[uuid.UUID]*domain.WeatherStation
}

func newResolver(store repository.Store) *resolver {
	return &resolver{
		store:     store,
		employees: make(map[uuid.UUID]*domain.Employee),
		spaces:    make(map[uuid.UUID]*domain.WorkSpace),
		stations:  make(map[uuid.UUID]*domain.WeatherStation),
	}
}

func (r *resolver) expand(ctx context.Context, wt *domain.WorkTime) error {
	var err error
	if wt.Employee, err = r.employee(ctx, wt.EmployeeID); err != nil {
		return err
	}
	if wt.WorkSpace, err = r.space(ctx, wt.WorkSpaceID); err != nil {
		return err
	}
	if wt.StartStationID != nil {
		if wt.StartStation, err = r.station(ctx, *wt.StartStationID); err != nil {
			return err
		}
	}
	if wt.EndStationID != nil {
		if wt.EndStation, err = r.station(ctx, *wt.EndStationID); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) employee(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	if e, ok := r.employees[id]; ok {
		return e, nil
	}
	e, err := r.store.Employees().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	r.employees[id] = e
	return e, nil
}

func (r *resolver) space(ctx context.Context, id uuid.UUID) (*domain.WorkSpace, error) {
	if w, ok := r.spaces[id]; ok {
		return w, nil
	}
	w, err := r.store.WorkSpaces().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get work space %s: %w", id, err)
	}
	r.spaces[id] = w
	return w, nil
}

// station возвращает nil без ошибки, если станцию удалили между запросами
func (r *resolver) station(ctx context.Context, id uuid.UUID) (*domain.WeatherStation, error) {
	if st, ok := r.stations[id]; ok {
		return st, nil
	}
	st, err := r.store.Stations().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrStationNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get station %s: %w", id, err)
	}
	r.stations[id] = st
	return st, nil
}
