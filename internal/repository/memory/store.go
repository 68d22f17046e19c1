// Package memory - хранилище в памяти с теми же контрактами, что и PostgreSQL:
// транзакции с откатом и эксклюзивная блокировка сотрудника до конца транзакции.
// Используется в тестах и при STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

// record - запись с порядковым номером вставки
type record[T any] struct {
	seq   uint64
	value T
}

type state struct {
	employees   map[uuid.UUID]record[domain.Employee]
	cards       map[uuid.UUID]record[domain.EmployeeCard]
	stations    map[uuid.UUID]record[domain.WeatherStation]
	workSpaces  map[uuid.UUID]record[domain.WorkSpace]
	workTimes   map[uuid.UUID]record[domain.WorkTime]
	cardLogs    map[uuid.UUID]record[domain.EmployeeCardLog]
	weatherData map[uuid.UUID]record[domain.WeatherData]
}

// DB - корневое хранилище в памяти
type DB struct {
	mu  sync.RWMutex
	seq uint64
	st  state

	locksMu sync.Mutex
	locks   map[uuid.UUID]chan struct{}
}

// NewDB создает пустое хранилище
func NewDB() *DB {
	return &DB{
		st: state{
			employees:   make(map[uuid.UUID]record[domain.Employee]),
			cards:       make(map[uuid.UUID]record[domain.EmployeeCard]),
			stations:    make(map[uuid.UUID]record[domain.WeatherStation]),
			workSpaces:  make(map[uuid.UUID]record[domain.WorkSpace]),
			workTimes:   make(map[uuid.UUID]record[domain.WorkTime]),
			cardLogs:    make(map[uuid.UUID]record[domain.EmployeeCardLog]),
			weatherData: make(map[uuid.UUID]record[domain.WeatherData]),
		},
		locks: make(map[uuid.UUID]chan struct{}),
	}
}

// nextSeq должен вызываться под db.mu
func (db *DB) nextSeq() uint64 {
	db.seq++
	return db.seq
}

func (db *DB) employeeLock(id uuid.UUID) chan struct{} {
	db.locksMu.Lock()
	defer db.locksMu.Unlock()

	l, ok := db.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		db.locks[id] = l
	}
	return l
}

// tx - состояние транзакции: журнал отката и взятые блокировки
type tx struct {
	undo []func(st *state)
	held map[uuid.UUID]chan struct{}
}

func (t *tx) onRollback(fn func(st *state)) {
	if t != nil {
		t.undo = append(t.undo, fn)
	}
}

// store - набор репозиториев, опционально привязанных к транзакции
type store struct {
	db *DB
	tx *tx
}

// Store возвращает набор репозиториев вне транзакции
func (db *DB) Store() repository.Store {
	return &store{db: db}
}

func (s *store) Employees() repository.EmployeeRepository { return &employeeRepository{s} }
func (s *store) Cards() repository.EmployeeCardRepository { return &employeeCardRepository{s} }
func (s *store) Stations() repository.WeatherStationRepository { return &weatherStationRepository{s} }
func (s *store) WorkSpaces() repository.WorkSpaceRepository { return &workSpaceRepository{s} }
func (s *store) WorkTimes() repository.WorkTimeRepository { return &workTimeRepository{s} }
func (s *store) CardLogs() repository.EmployeeCardLogRepository { return &employeeCardLogRepository{s} }
func (s *store) WeatherData() repository.WeatherDataRepository { return &weatherDataRepository{s} }

// txManager - реализация TxManager в памяти
type txManager struct {
	db *DB
}

// NewTxManager создает менеджер транзакций поверх хранилища
func NewTxManager(db *DB) repository.TxManager {
	return &txManager{db: db}
}

// WithinTransaction выполняет fn; при ошибке изменения откатываются в обратном порядке
func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) (err error) {
	t := &tx{held: make(map[uuid.UUID]chan struct{})}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(t)
			m.release(t)
			panic(p)
		}
		if err != nil {
			m.rollback(t)
		}
		m.release(t)
	}()

	return fn(ctx, &store{db: m.db, tx: t})
}

func (m *txManager) rollback(t *tx) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i](&m.db.st)
	}
	t.undo = nil
}

func (m *txManager) release(t *tx) {
	for id, l := range t.held {
		<-l
		delete(t.held, id)
	}
}

// sortedValues возвращает значения в порядке вставки
func sortedValues[T any](m map[uuid.UUID]record[T], keep func(T) bool) []T {
	recs := make([]record[T], 0, len(m))
	for _, r := range m {
		if keep == nil || keep(r.value) {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	values := make([]T, 0, len(recs))
	for _, r := range recs {
		values = append(values, r.value)
	}
	return values
}

// paginate применяет limit/offset (limit 0 = без ограничения)
func paginate[T any](items []T, page repository.Page) []T {
	if page.Offset >= len(items) {
		return nil
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
