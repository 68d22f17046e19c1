package worktime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/pkg/logger"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/frontandrew/stationtime/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env - станции A, B, C, рабочее пространство A→B и сотрудник с активной картой
type env struct {
	db       *memory.DB
	store    repository.Store
	svc      *Service
	stationA *domain.WeatherStation
	stationB *domain.WeatherStation
	stationC *domain.WeatherStation
	space    *domain.WorkSpace
	employee *domain.Employee
	card     *domain.EmployeeCard
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db := memory.NewDB()
	s := db.Store()
	e := &env{db: db, store: s}

	e.stationA = createStation(t, s, "A", true)
	e.stationB = createStation(t, s, "B", true)
	e.stationC = createStation(t, s, "C", true)

	e.space = &domain.WorkSpace{Name: "A→B", StartStationID: e.stationA.ID, EndStationID: e.stationB.ID}
	require.NoError(t, s.WorkSpaces().Create(ctx, e.space))

	e.employee, e.card = createEmployee(t, s, "E-1", true)

	e.svc = NewService(memory.NewTxManager(db), s, Config{MaxAttempts: 3, Backoff: time.Millisecond}, logger.NewNoop())
	return e
}

func createStation(t *testing.T, s repository.Store, name string, active bool) *domain.WeatherStation {
	t.Helper()
	station := &domain.WeatherStation{Name: name, IsActive: active}
	require.NoError(t, s.Stations().Create(context.Background(), station))
	return station
}

func createEmployee(t *testing.T, s repository.Store, cardNumber string, cardActive bool) (*domain.Employee, *domain.EmployeeCard) {
	t.Helper()
	ctx := context.Background()

	employee := &domain.Employee{Name: "Ivan", Surname: "Petrov", IsActive: true}
	require.NoError(t, s.Employees().Create(ctx, employee))

	card := &domain.EmployeeCard{CardNumber: cardNumber, EmployeeID: employee.ID, IsActive: cardActive}
	require.NoError(t, s.Cards().Create(ctx, card))

	return employee, card
}

func (e *env) tap(t *testing.T, card string, station uuid.UUID) *domain.TapResult {
	t.Helper()
	result, err := e.svc.HandleTap(context.Background(), &TapRequest{CardNumber: card, StationID: station.String()})
	require.NoError(t, err)
	return result
}

func (e *env) workTimes(t *testing.T) []*domain.WorkTime {
	t.Helper()
	list, err := e.store.WorkTimes().List(context.Background(), repository.WorkTimeFilter{EmployeeID: &e.employee.ID})
	require.NoError(t, err)
	return list
}

func TestHandleTap_OpenWrongGateClose(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	opened := e.tap(t, "E-1", e.stationA.ID)
	assert.Equal(t, domain.TapSessionOpened, opened.Status)
	require.NotNil(t, opened.WorkTime)
	assert.Equal(t, e.employee.ID, *opened.EmployeeID)
	assert.Equal(t, e.space.ID, opened.WorkTime.WorkSpaceID)

	open, err := e.store.WorkTimes().GetOpenByEmployee(ctx, e.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, e.stationA.ID, *open.StartStationID)
	assert.Nil(t, open.EndDate)

	wrong := e.tap(t, "E-1", e.stationC.ID)
	assert.Equal(t, domain.TapWrongEndStation, wrong.Status)
	assert.Nil(t, wrong.WorkTime)

	unchanged, err := e.store.WorkTimes().GetByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, open, unchanged)

	closed := e.tap(t, "E-1", e.stationB.ID)
	assert.Equal(t, domain.TapSessionClosed, closed.Status)

	row, err := e.store.WorkTimes().GetByID(ctx, open.ID)
	require.NoError(t, err)
	require.NotNil(t, row.EndDate)
	assert.False(t, row.EndDate.Before(row.StartDate))
	assert.Equal(t, e.stationB.ID, *row.EndStationID)

	_, err = e.store.WorkTimes().GetOpenByEmployee(ctx, e.employee.ID)
	assert.ErrorIs(t, err, domain.ErrWorkTimeNotFound)
}

func TestHandleTap_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, e *env) (card string, station uuid.UUID)
		want    domain.TapStatus
	}{
		{
			name: "неизвестная станция",
			prepare: func(t *testing.T, e *env) (string, uuid.UUID) {
				return "E-1", uuid.New()
			},
			want: domain.TapInvalidStation,
		},
		{
			name: "неактивная станция",
			prepare: func(t *testing.T, e *env) (string, uuid.UUID) {
				require.NoError(t, e.store.Stations().SetActive(context.Background(), e.stationA.ID, false))
				return "E-1", e.stationA.ID
			},
			want: domain.TapInvalidStation,
		},
		{
			name: "неизвестная карта",
			prepare: func(t *testing.T, e *env) (string, uuid.UUID) {
				return "NOPE", e.stationA.ID
			},
			want: domain.TapCardNotFound,
		},
		{
			name: "неактивная карта",
			prepare: func(t *testing.T, e *env) (string, uuid.UUID) {
				require.NoError(t, e.store.Cards().SetActive(context.Background(), e.card.ID, false))
				return "E-1", e.stationA.ID
			},
			want: domain.TapCardInactive,
		},
		{
			name: "нет рабочего пространства на станции",
			prepare: func(t *testing.T, e *env) (string, uuid.UUID) {
				return "E-1", e.stationC.ID
			},
			want: domain.TapNoWorkSpaceForStation,
		},
		{
			name: "станция конца не открывает сессию",
			prepare: func(t *testing.T, e *env) (string, uuid.UUID) {
				return "E-1", e.stationB.ID
			},
			want: domain.TapNoWorkSpaceForStation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			card, station := tt.prepare(t, e)

			result := e.tap(t, card, station)
			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, tt.want.Message(), result.Message)
			assert.Nil(t, result.WorkTime)

			// отказы ничего не меняют
			assert.Empty(t, e.workTimes(t))
			logs, err := e.store.CardLogs().List(context.Background(), repository.CardLogFilter{})
			require.NoError(t, err)
			assert.Empty(t, logs)
		})
	}
}

func TestHandleTap_ValidationError(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name  string
		req   *TapRequest
		field string
	}{
		{name: "нет номера карты", req: &TapRequest{StationID: e.stationA.ID.String()}, field: "card_number"},
		{name: "нет станции", req: &TapRequest{CardNumber: "E-1"}, field: "weather_station"},
		{name: "станция не UUID", req: &TapRequest{CardNumber: "E-1", StationID: "42"}, field: "weather_station"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.HandleTap(context.Background(), tt.req)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestHandleTap_EarliestWorkSpaceWins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	later := &domain.WorkSpace{Name: "A→C", StartStationID: e.stationA.ID, EndStationID: e.stationC.ID}
	require.NoError(t, e.store.WorkSpaces().Create(ctx, later))

	result := e.tap(t, "E-1", e.stationA.ID)
	require.Equal(t, domain.TapSessionOpened, result.Status)
	assert.Equal(t, e.space.ID, result.WorkTime.WorkSpaceID)

	// закрытие только на станции пространства, выбранного при открытии
	assert.Equal(t, domain.TapWrongEndStation, e.tap(t, "E-1", e.stationC.ID).Status)
	assert.Equal(t, domain.TapSessionClosed, e.tap(t, "E-1", e.stationB.ID).Status)
}

func TestHandleTap_ClosingStationFixedAtOpen(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.Equal(t, domain.TapSessionOpened, e.tap(t, "E-1", e.stationA.ID).Status)

	// новое пространство на той же станции не меняет открытую сессию
	require.NoError(t, e.store.WorkSpaces().Create(ctx, &domain.WorkSpace{
		Name: "A→C", StartStationID: e.stationA.ID, EndStationID: e.stationC.ID,
	}))

	assert.Equal(t, domain.TapWrongEndStation, e.tap(t, "E-1", e.stationC.ID).Status)
	assert.Equal(t, domain.TapSessionClosed, e.tap(t, "E-1", e.stationB.ID).Status)
}

func TestHandleTap_ClockSkewKeepsOrder(t *testing.T) {
	e := newEnv(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	e.svc.now = func() time.Time { return start }
	require.Equal(t, domain.TapSessionOpened, e.tap(t, "E-1", e.stationA.ID).Status)

	e.svc.now = func() time.Time { return start.Add(-time.Minute) }
	closed := e.tap(t, "E-1", e.stationB.ID)
	require.Equal(t, domain.TapSessionClosed, closed.Status)
	assert.Equal(t, start, *closed.WorkTime.EndDate)
}

func TestHandleTap_ConcurrentTapsSameEmployee(t *testing.T) {
	e := newEnv(t)
	const taps = 20

	var wg sync.WaitGroup
	statuses := make(chan domain.TapStatus, taps)
	for i := 0; i < taps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := e.svc.HandleTap(context.Background(), &TapRequest{CardNumber: "E-1", StationID: e.stationA.ID.String()})
			if assert.NoError(t, err) {
				statuses <- result.Status
			}
		}()
	}
	wg.Wait()
	close(statuses)

	counts := map[domain.TapStatus]int{}
	for s := range statuses {
		counts[s]++
	}
	assert.Equal(t, 1, counts[domain.TapSessionOpened])
	assert.Equal(t, taps-1, counts[domain.TapWrongEndStation])

	open, err := e.store.WorkTimes().CountOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, open)
	assert.Len(t, e.workTimes(t), 1)
}

func TestHandleTap_DifferentEmployeesDoNotBlock(t *testing.T) {
	e := newEnv(t)
	_, _ = createEmployee(t, e.store, "E-2", true)
	txm := memory.NewTxManager(e.db)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = txm.WithinTransaction(context.Background(), func(ctx context.Context, s repository.Store) error {
			if err := s.WorkTimes().LockEmployee(ctx, e.employee.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	result, err := e.svc.HandleTap(ctx, &TapRequest{CardNumber: "E-2", StationID: e.stationA.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.TapSessionOpened, result.Status)

	// отметка заблокированного сотрудника ждет и отменяется по таймауту
	short, cancelShort := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelShort()
	_, err = e.svc.HandleTap(short, &TapRequest{CardNumber: "E-1", StationID: e.stationA.ID.String()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-done
}

// conflictTxManager возвращает конфликт первые n вызовов
type conflictTxManager struct {
	repository.TxManager
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (m *conflictTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	m.mu.Lock()
	m.calls++
	conflict := m.calls <= m.conflicts
	m.mu.Unlock()

	if conflict {
		return repository.ErrTxConflict
	}
	return m.TxManager.WithinTransaction(ctx, fn)
}

func TestHandleTap_RetriesConflicts(t *testing.T) {
	tests := []struct {
		name      string
		conflicts int
		wantErr   bool
		wantCalls int
	}{
		{name: "успех после повтора", conflicts: 2, wantCalls: 3},
		{name: "попытки исчерпаны", conflicts: 5, wantErr: true, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			txm := &conflictTxManager{TxManager: memory.NewTxManager(e.db), conflicts: tt.conflicts}
			svc := NewService(txm, e.store, Config{MaxAttempts: 3, Backoff: time.Millisecond}, logger.NewNoop())

			result, err := svc.HandleTap(context.Background(), &TapRequest{CardNumber: "E-1", StationID: e.stationA.ID.String()})
			assert.Equal(t, tt.wantCalls, txm.calls)

			if tt.wantErr {
				assert.ErrorIs(t, err, repository.ErrTxConflict)
				assert.Nil(t, result)
				assert.Empty(t, e.workTimes(t))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.TapSessionOpened, result.Status)
		})
	}
}

func TestCheckCard(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, e *env) *CheckCardRequest
		want    domain.CardCheckStatus
		station bool
	}{
		{
			name: "активная карта со станцией",
			prepare: func(t *testing.T, e *env) *CheckCardRequest {
				return &CheckCardRequest{CardNumber: "E-1", StationID: e.stationA.ID.String()}
			},
			want:    domain.CardCheckOK,
			station: true,
		},
		{
			name: "активная карта без станции",
			prepare: func(t *testing.T, e *env) *CheckCardRequest {
				return &CheckCardRequest{CardNumber: "E-1"}
			},
			want: domain.CardCheckOK,
		},
		{
			name: "неизвестная карта",
			prepare: func(t *testing.T, e *env) *CheckCardRequest {
				return &CheckCardRequest{CardNumber: "NOPE"}
			},
			want: domain.CardCheckNotFound,
		},
		{
			name: "неактивная карта",
			prepare: func(t *testing.T, e *env) *CheckCardRequest {
				require.NoError(t, e.store.Cards().SetActive(context.Background(), e.card.ID, false))
				return &CheckCardRequest{CardNumber: "E-1", StationID: e.stationA.ID.String()}
			},
			want: domain.CardCheckInactive,
		},
		{
			name: "неактивная станция",
			prepare: func(t *testing.T, e *env) *CheckCardRequest {
				require.NoError(t, e.store.Stations().SetActive(context.Background(), e.stationA.ID, false))
				return &CheckCardRequest{CardNumber: "E-1", StationID: e.stationA.ID.String()}
			},
			want: domain.CardCheckInvalidStation,
		},
		{
			name: "неизвестная станция",
			prepare: func(t *testing.T, e *env) *CheckCardRequest {
				return &CheckCardRequest{CardNumber: "E-1", StationID: uuid.NewString()}
			},
			want: domain.CardCheckInvalidStation,
		},
		{
			name: "станция проверяется раньше карты",
			prepare: func(t *testing.T, e *env) *CheckCardRequest {
				return &CheckCardRequest{CardNumber: "NOPE", StationID: uuid.NewString()}
			},
			want: domain.CardCheckInvalidStation,
		},
		{
			name: "неактивная карта на неактивной станции",
			prepare: func(t *testing.T, e *env) *CheckCardRequest {
				ctx := context.Background()
				require.NoError(t, e.store.Cards().SetActive(ctx, e.card.ID, false))
				require.NoError(t, e.store.Stations().SetActive(ctx, e.stationA.ID, false))
				return &CheckCardRequest{CardNumber: "E-1", StationID: e.stationA.ID.String()}
			},
			want: domain.CardCheckInvalidStation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()

			result, err := e.svc.CheckCard(ctx, tt.prepare(t, e))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)

			logs, err := e.store.CardLogs().List(ctx, repository.CardLogFilter{})
			require.NoError(t, err)

			if tt.want != domain.CardCheckOK {
				assert.Nil(t, result.Log)
				assert.Empty(t, logs)
				return
			}

			require.Len(t, logs, 1)
			assert.Equal(t, e.card.ID, logs[0].EmployeeCardID)
			if tt.station {
				assert.Equal(t, e.stationA.ID, *logs[0].StationID)
			} else {
				assert.Nil(t, logs[0].StationID)
			}

			// проверка карты не трогает рабочее время
			assert.Empty(t, e.workTimes(t))
		})
	}
}
