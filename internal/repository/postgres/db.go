package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema - DDL таблиц сервиса, идемпотентна (IF NOT EXISTS)
//
//go:embed schema.sql
var Schema string

// Коды ошибок PostgreSQL, после которых транзакцию можно повторить
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"

	// Частичный уникальный индекс: одна открытая сессия на сотрудника
	openWorkTimeIndex = "work_times_one_open_per_employee"
)

// DBTX - общий интерфейс pgxpool.Pool и pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// store - набор репозиториев поверх одного DBTX
type store struct {
	employees   repository.EmployeeRepository
	cards       repository.EmployeeCardRepository
	stations    repository.WeatherStationRepository
	workSpaces  repository.WorkSpaceRepository
	workTimes   repository.WorkTimeRepository
	cardLogs    repository.EmployeeCardLogRepository
	weatherData repository.WeatherDataRepository
}

// NewStore создает набор репозиториев поверх пула или транзакции
func NewStore(db DBTX) repository.Store {
	return &store{
		employees:   NewEmployeeRepository(db),
		cards:       NewEmployeeCardRepository(db),
		stations:    NewWeatherStationRepository(db),
		workSpaces:  NewWorkSpaceRepository(db),
		workTimes:   NewWorkTimeRepository(db),
		cardLogs:    NewEmployeeCardLogRepository(db),
		weatherData: NewWeatherDataRepository(db),
	}
}

func (s *store) Employees() repository.EmployeeRepository { return s.employees }
func (s *store) Cards() repository.EmployeeCardRepository { return s.cards }
func (s *store) Stations() repository.WeatherStationRepository { return s.stations }
func (s *store) WorkSpaces() repository.WorkSpaceRepository { return s.workSpaces }
func (s *store) WorkTimes() repository.WorkTimeRepository { return s.workTimes }
func (s *store) CardLogs() repository.EmployeeCardLogRepository { return s.cardLogs }
func (s *store) WeatherData() repository.WeatherDataRepository { return s.weatherData }

// txManager - PostgreSQL реализация TxManager
type txManager struct {
	pool *pgxpool.Pool
}

// NewTxManager создает менеджер транзакций
func NewTxManager(pool *pgxpool.Pool) repository.TxManager {
	return &txManager{pool: pool}
}

// WithinTransaction выполняет fn в транзакции READ COMMITTED
// Ошибки конкурентного доступа оборачиваются в repository.ErrTxConflict
func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			err = classifyTxError(err)
		}
	}()

	if err = fn(ctx, NewStore(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// isForeignKeyViolation сообщает, что вставка сослалась на отсутствующую строку
func isForeignKeyViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation && pgErr.ConstraintName == constraint
}

// classifyTxError помечает ошибки, после которых транзакцию имеет смысл повторить
func classifyTxError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %s", repository.ErrTxConflict, pgErr.Message)
	case pgUniqueViolation:
		if pgErr.ConstraintName == openWorkTimeIndex {
			return fmt.Errorf("%w: %s", repository.ErrTxConflict, pgErr.Message)
		}
	}

	return err
}
