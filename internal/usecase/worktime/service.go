package worktime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/pkg/metrics"
	"github.com/frontandrew/stationtime/internal/pkg/tracing"
	"github.com/frontandrew/stationtime/internal/pkg/validate"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TapRequest - отметка карты на станции
type TapRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
	StationID  string `json:"weather_station" validate:"required,uuid"`
}

// CheckCardRequest - проверка карты с необязательной станцией
type CheckCardRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
	StationID  string `json:"weather_station" validate:"omitempty,uuid"`
}

// CheckCardResult - результат проверки карты
type CheckCardResult struct {
	Status  domain.CardCheckStatus  `json:"status"`
	Message string                  `json:"message"`
	Log     *domain.EmployeeCardLog `json:"log,omitempty"`
}

// Config - настройки повторов транзакции отметки
type Config struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Service - движок рабочего времени
type Service struct {
	txManager repository.TxManager
	store     repository.Store
	cfg       Config
	logger    logger.Logger
	now       func() time.Time
}

// NewService создает новый экземпляр WorkTimeService
func NewService(txManager repository.TxManager, store repository.Store, cfg Config, logger logger.Logger) *Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Service{
		txManager: txManager,
		store:     store,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleTap - КЛЮЧЕВОЙ МЕТОД системы
// Состояние сотрудника: IDLE (нет открытой сессии) или ACTIVE (ровно одна открытая сессия).
// 1. Станция → должна существовать и быть активной
// 2. Номер карты → карта (не найдена / неактивна - разные отказы)
// 3. Блокировка сотрудника → чтение открытой сессии
// 4. ACTIVE → закрыть, только если станция = конечной станции рабочего пространства сессии
// 5. IDLE → открыть в первом рабочем пространстве, начинающемся на станции
// Шаги 3-5 выполняются в одной транзакции; конфликт транзакции повторяется целиком.
func (s *Service) HandleTap(ctx context.Context, req *TapRequest) (*domain.TapResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	stationID := uuid.MustParse(req.StationID)

	ctx, span := tracing.Tracer().Start(ctx, "worktime.HandleTap")
	defer span.End()
	span.SetAttributes(attribute.String("station.id", stationID.String()))

	started := time.Now()
	var (
		result *domain.TapResult
		err    error
	)

	for attempt := 1; ; attempt++ {
		result, err = s.handleTapOnce(ctx, req.CardNumber, stationID)
		if err == nil || !errors.Is(err, repository.ErrTxConflict) || attempt >= s.cfg.MaxAttempts {
			break
		}

		metrics.IncTapRetry()
		s.logger.Warn("Tap transaction conflict, retrying", map[string]interface{}{
			"card_number": req.CardNumber,
			"station_id":  stationID,
			"attempt":     attempt,
		})

		if werr := sleepCtx(ctx, s.cfg.Backoff*time.Duration(attempt)); werr != nil {
			err = werr
			break
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("Failed to handle tap", map[string]interface{}{
			"card_number": req.CardNumber,
			"station_id":  stationID,
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("handle tap: %w", err)
	}

	span.SetAttributes(attribute.String("tap.status", string(result.Status)))
	metrics.ObserveTap(string(result.Status), time.Since(started))
	switch result.Status {
	case domain.TapSessionOpened:
		metrics.IncOpenWorkTimes()
	case domain.TapSessionClosed:
		metrics.DecOpenWorkTimes()
	}

	fields := map[string]interface{}{
		"card_number": req.CardNumber,
		"station_id":  stationID,
		"status":      result.Status,
	}
	if result.EmployeeID != nil {
		fields["employee_id"] = *result.EmployeeID
	}
	s.logger.Info("Tap handled", fields)

	return result, nil
}

// handleTapOnce выполняет одну попытку отметки в транзакции
// Бизнес-отказы возвращаются как результат, транзакция при этом ничего не меняет
func (s *Service) handleTapOnce(ctx context.Context, cardNumber string, stationID uuid.UUID) (*domain.TapResult, error) {
	var result *domain.TapResult

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		// ШАГ 1: станция
		station, err := tx.Stations().GetByID(ctx, stationID)
		if err != nil {
			if errors.Is(err, domain.ErrStationNotFound) {
				result = domain.NewTapResult(domain.TapInvalidStation)
				return nil
			}
			return fmt.Errorf("get station: %w", err)
		}
		if !station.IsActive {
			result = domain.NewTapResult(domain.TapInvalidStation)
			return nil
		}

		// ШАГ 2: карта
		card, status, err := NewCardValidator(tx.Cards()).Check(ctx, cardNumber)
		if err != nil {
			return fmt.Errorf("resolve card: %w", err)
		}
		switch status {
		case domain.CardCheckNotFound:
			result = domain.NewTapResult(domain.TapCardNotFound)
			return nil
		case domain.CardCheckInactive:
			result = domain.NewTapResult(domain.TapCardInactive)
			return nil
		}

		// ШАГ 3: блокировка сотрудника до конца транзакции, затем чтение состояния
		employeeID := card.EmployeeID
		if err := tx.WorkTimes().LockEmployee(ctx, employeeID); err != nil {
			if errors.Is(err, domain.ErrEmployeeNotFound) {
				result = domain.NewTapResult(domain.TapCardNotFound)
				return nil
			}
			return fmt.Errorf("lock employee: %w", err)
		}

		open, err := tx.WorkTimes().GetOpenByEmployee(ctx, employeeID)
		switch {
		case err == nil:
			result, err = s.closeSession(ctx, tx, open, station)
		case errors.Is(err, domain.ErrWorkTimeNotFound):
			result, err = s.openSession(ctx, tx, employeeID, station)
		default:
			return fmt.Errorf("get open work time: %w", err)
		}
		if err != nil {
			return err
		}

		result.EmployeeID = &employeeID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// closeSession - переход ACTIVE → IDLE
// Конечная станция берется из рабочего пространства, выбранного при открытии
func (s *Service) closeSession(ctx context.Context, tx repository.Store, open *domain.WorkTime, station *domain.WeatherStation) (*domain.TapResult, error) {
	space, err := tx.WorkSpaces().GetByID(ctx, open.WorkSpaceID)
	if err != nil {
		return nil, fmt.Errorf("get work space of open work time: %w", err)
	}

	if !space.IsEndStation(station.ID) {
		s.logger.Info("Tap at wrong end station", map[string]interface{}{
			"work_time_id":   open.ID,
			"station_id":     station.ID,
			"end_station_id": space.EndStationID,
			"work_space_id":  space.ID,
		})
		return domain.NewTapResult(domain.TapWrongEndStation), nil
	}

	if err := open.Close(station.ID, s.now()); err != nil {
		return nil, err
	}
	if err := tx.WorkTimes().Close(ctx, open); err != nil {
		if errors.Is(err, domain.ErrWorkTimeNotFound) {
			// сессию закрыли параллельно, несмотря на блокировку
			return nil, repository.ErrTxConflict
		}
		return nil, fmt.Errorf("close work time: %w", err)
	}

	open.WorkSpace = space
	result := domain.NewTapResult(domain.TapSessionClosed)
	result.WorkTime = open
	return result, nil
}

// openSession - переход IDLE → ACTIVE
// При нескольких рабочих пространствах на одной станции берется самое раннее
func (s *Service) openSession(ctx context.Context, tx repository.Store, employeeID uuid.UUID, station *domain.WeatherStation) (*domain.TapResult, error) {
	spaces, err := tx.WorkSpaces().GetByStartStation(ctx, station.ID)
	if err != nil {
		return nil, fmt.Errorf("get work spaces by start station: %w", err)
	}
	if len(spaces) == 0 {
		return domain.NewTapResult(domain.TapNoWorkSpaceForStation), nil
	}
	if len(spaces) > 1 {
		s.logger.Warn("Several work spaces start at station, using the earliest", map[string]interface{}{
			"station_id":    station.ID,
			"work_space_id": spaces[0].ID,
			"count":         len(spaces),
		})
	}

	workTime := domain.NewWorkTime(employeeID, spaces[0], station.ID, s.now())
	if err := tx.WorkTimes().Create(ctx, workTime); err != nil {
		if errors.Is(err, domain.ErrOpenWorkTimeExists) {
			return nil, repository.ErrTxConflict
		}
		return nil, fmt.Errorf("create work time: %w", err)
	}

	result := domain.NewTapResult(domain.TapSessionOpened)
	result.WorkTime = workTime
	return result, nil
}

// CheckCard проверяет карту и пишет лог отметки для существующей активной карты
// Указанная станция проверяется первой: она должна существовать и быть активной
func (s *Service) CheckCard(ctx context.Context, req *CheckCardRequest) (*CheckCardResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var stationID *uuid.UUID
	if req.StationID != "" {
		id := uuid.MustParse(req.StationID)
		station, err := s.store.Stations().GetByID(ctx, id)
		switch {
		case errors.Is(err, domain.ErrStationNotFound):
			return s.rejectCardCheck(req, domain.CardCheckInvalidStation), nil
		case err != nil:
			return nil, fmt.Errorf("get station: %w", err)
		case !station.IsActive:
			return s.rejectCardCheck(req, domain.CardCheckInvalidStation), nil
		}
		stationID = &id
	}

	card, status, err := NewCardValidator(s.store.Cards()).Check(ctx, req.CardNumber)
	if err != nil {
		return nil, fmt.Errorf("check card: %w", err)
	}
	if status != domain.CardCheckOK {
		return s.rejectCardCheck(req, status), nil
	}

	log := &domain.EmployeeCardLog{
		EmployeeCardID: card.ID,
		StationID:      stationID,
		Date:           s.now(),
	}
	if err := s.store.CardLogs().Create(ctx, log); err != nil {
		// карта удалена между поиском и записью лога
		if errors.Is(err, domain.ErrCardNotFound) {
			return s.rejectCardCheck(req, domain.CardCheckNotFound), nil
		}
		return nil, fmt.Errorf("create card log: %w", err)
	}

	metrics.ObserveCardCheck(string(domain.CardCheckOK))
	s.logger.Info("Card checked", map[string]interface{}{
		"card_number": req.CardNumber,
		"card_id":     card.ID,
		"station_id":  req.StationID,
	})

	return &CheckCardResult{Status: domain.CardCheckOK, Message: domain.CardCheckOK.Message(), Log: log}, nil
}

func (s *Service) rejectCardCheck(req *CheckCardRequest, status domain.CardCheckStatus) *CheckCardResult {
	metrics.ObserveCardCheck(string(status))
	s.logger.Info("Card check rejected", map[string]interface{}{
		"card_number": req.CardNumber,
		"station_id":  req.StationID,
		"status":      status,
	})
	return &CheckCardResult{Status: status, Message: status.Message()}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
