package admin

import (
	"context"
	"fmt"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/pkg/metrics"
	"github.com/frontandrew/stationtime/internal/pkg/validate"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Surname     string `json:"surname" validate:"required,max=50"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	IsActive    *bool  `json:"is_active"`
}

// CreateCardRequest - запрос на выпуск карты
type CreateCardRequest struct {
	CardNumber string `json:"card_number" validate:"required,max=50"`
	EmployeeID string `json:"employee" validate:"required,uuid"`
	IsActive   *bool  `json:"is_active"`
}

// CreateStationRequest - запрос на создание станции
type CreateStationRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	IsActive *bool  `json:"is_active"`
}

// CreateWorkSpaceRequest - запрос на создание рабочего пространства
type CreateWorkSpaceRequest struct {
	Name           string `json:"name" validate:"required,max=50"`
	StartStationID string `json:"start_station" validate:"required,uuid"`
	EndStationID   string `json:"end_station" validate:"required,uuid"`
}

// SetActiveRequest - включение или выключение карты или станции
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Service содержит административные операции
type Service struct {
	txManager repository.TxManager
	store     repository.Store
	logger    logger.Logger
}

// NewService создает новый экземпляр AdminService
func NewService(txManager repository.TxManager, store repository.Store, logger logger.Logger) *Service {
	return &Service{
		txManager: txManager,
		store:     store,
		logger:    logger,
	}
}

// CreateEmployee создает сотрудника (по умолчанию активного)
func (s *Service) CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*domain.Employee, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		Name:        req.Name,
		Surname:     req.Surname,
		PhoneNumber: req.PhoneNumber,
		IsActive:    boolOr(req.IsActive, true),
	}
	if err := employee.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Employees().Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	s.logger.Info("Employee created", map[string]interface{}{
		"employee_id": employee.ID,
	})

	return employee, nil
}

// CreateCard выпускает карту существующему сотруднику
func (s *Service) CreateCard(ctx context.Context, req *CreateCardRequest) (*domain.EmployeeCard, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	employeeID := uuid.MustParse(req.EmployeeID)
	if _, err := s.store.Employees().GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	card := &domain.EmployeeCard{
		CardNumber: req.CardNumber,
		EmployeeID: employeeID,
		IsActive:   boolOr(req.IsActive, true),
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	// номер не уникален на уровне БД; при дубликате отметки идут по самой ранней карте
	if existing, err := s.store.Cards().GetByCardNumber(ctx, card.CardNumber); err == nil {
		s.logger.Warn("Card number already issued", map[string]interface{}{
			"card_number":      card.CardNumber,
			"existing_card_id": existing.ID,
		})
	}

	if err := s.store.Cards().Create(ctx, card); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	s.logger.Info("Employee card created", map[string]interface{}{
		"card_id":     card.ID,
		"employee_id": employeeID,
	})

	return card, nil
}

// SetCardActive включает или выключает карту
func (s *Service) SetCardActive(ctx context.Context, id uuid.UUID, req *SetActiveRequest) (*domain.EmployeeCard, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if err := s.store.Cards().SetActive(ctx, id, *req.IsActive); err != nil {
		return nil, err
	}

	s.logger.Info("Employee card activity changed", map[string]interface{}{
		"card_id":   id,
		"is_active": *req.IsActive,
	})

	return s.store.Cards().GetByID(ctx, id)
}

// CreateStation создает станцию (по умолчанию активную)
func (s *Service) CreateStation(ctx context.Context, req *CreateStationRequest) (*domain.WeatherStation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	station := &domain.WeatherStation{
		Name:     req.Name,
		IsActive: boolOr(req.IsActive, true),
	}
	if err := station.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Stations().Create(ctx, station); err != nil {
		return nil, fmt.Errorf("create station: %w", err)
	}

	s.logger.Info("Weather station created", map[string]interface{}{
		"station_id": station.ID,
	})

	return station, nil
}

// SetStationActive включает или выключает станцию
func (s *Service) SetStationActive(ctx context.Context, id uuid.UUID, req *SetActiveRequest) (*domain.WeatherStation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if err := s.store.Stations().SetActive(ctx, id, *req.IsActive); err != nil {
		return nil, err
	}

	s.logger.Info("Weather station activity changed", map[string]interface{}{
		"station_id": id,
		"is_active":  *req.IsActive,
	})

	return s.store.Stations().GetByID(ctx, id)
}

// CreateWorkSpace создает рабочее пространство между двумя существующими станциями
func (s *Service) CreateWorkSpace(ctx context.Context, req *CreateWorkSpaceRequest) (*domain.WorkSpace, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	space := &domain.WorkSpace{
		Name:           req.Name,
		StartStationID: uuid.MustParse(req.StartStationID),
		EndStationID:   uuid.MustParse(req.EndStationID),
	}
	if err := space.Validate(); err != nil {
		return nil, err
	}

	for _, id := range []uuid.UUID{space.StartStationID, space.EndStationID} {
		if _, err := s.store.Stations().GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	existing, err := s.store.WorkSpaces().GetByStartStation(ctx, space.StartStationID)
	if err != nil {
		return nil, fmt.Errorf("get work spaces by start station: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Warn("Start station already used by another work space", map[string]interface{}{
			"station_id":    space.StartStationID,
			"work_space_id": existing[0].ID,
		})
	}

	if err := s.store.WorkSpaces().Create(ctx, space); err != nil {
		return nil, fmt.Errorf("create work space: %w", err)
	}

	s.logger.Info("Work space created", map[string]interface{}{
		"work_space_id":    space.ID,
		"start_station_id": space.StartStationID,
		"end_station_id":   space.EndStationID,
	})

	return space, nil
}

// DeleteStation удаляет станцию: ссылки в логах и сессиях обнуляются,
// рабочие пространства станции удаляются вместе с их сессиями
func (s *Service) DeleteStation(ctx context.Context, id uuid.UUID) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		return tx.Stations().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Weather station deleted", map[string]interface{}{
		"station_id": id,
	})
	s.refreshOpenGauge(ctx)

	return nil
}

// DeleteEmployee удаляет сотрудника вместе с картами, логами и сессиями
// Блокировка сотрудника не дает удалению пересечься с его отметкой
func (s *Service) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.WorkTimes().LockEmployee(ctx, id); err != nil {
			return err
		}
		return tx.Employees().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Employee deleted", map[string]interface{}{
		"employee_id": id,
	})
	s.refreshOpenGauge(ctx)

	return nil
}

func (s *Service) refreshOpenGauge(ctx context.Context) {
	count, err := s.store.WorkTimes().CountOpen(ctx)
	if err != nil {
		s.logger.Warn("Failed to count open work times", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.SetOpenWorkTimes(count)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
