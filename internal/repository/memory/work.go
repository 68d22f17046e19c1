package memory

import (
	"context"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

type workSpaceRepository struct {
	s *store
}

func (r *workSpaceRepository) Create(_ context.Context, space *domain.WorkSpace) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.st.stations[space.StartStationID]; !ok {
		return domain.ErrStationNotFound
	}
	if _, ok := db.st.stations[space.EndStationID]; !ok {
		return domain.ErrStationNotFound
	}

	space.ID = uuid.New()
	space.CreatedAt = time.Now()
	id := space.ID
	stored := *space
	stored.StartStation, stored.EndStation = nil, nil
	db.st.workSpaces[id] = record[domain.WorkSpace]{seq: db.nextSeq(), value: stored}
	r.s.tx.onRollback(func(st *state) { delete(st.workSpaces, id) })

	return nil
}

func (r *workSpaceRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.WorkSpace, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.st.workSpaces[id]
	if !ok {
		return nil, domain.ErrWorkSpaceNotFound
	}
	space := rec.value
	return &space, nil
}

func (r *workSpaceRepository) GetByStartStation(_ context.Context, stationID uuid.UUID) ([]*domain.WorkSpace, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	values := sortedValues(db.st.workSpaces, func(w domain.WorkSpace) bool {
		return w.StartStationID == stationID
	})
	spaces := make([]*domain.WorkSpace, 0, len(values))
	for i := range values {
		spaces = append(spaces, &values[i])
	}
	return spaces, nil
}

type workTimeRepository struct {
	s *store
}

// LockEmployee берет блокировку сотрудника до конца транзакции
// Вне транзакции только проверяет существование сотрудника
func (r *workTimeRepository) LockEmployee(ctx context.Context, employeeID uuid.UUID) error {
	db := r.s.db

	db.mu.RLock()
	_, ok := db.st.employees[employeeID]
	db.mu.RUnlock()
	if !ok {
		return domain.ErrEmployeeNotFound
	}

	t := r.s.tx
	if t == nil {
		return nil
	}
	if _, held := t.held[employeeID]; held {
		return nil
	}

	l := db.employeeLock(employeeID)
	select {
	case l <- struct{}{}:
		t.held[employeeID] = l
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *workTimeRepository) Create(_ context.Context, workTime *domain.WorkTime) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if workTime.IsOpen() {
		for _, wt := range db.st.workTimes {
			if wt.value.EmployeeID == workTime.EmployeeID && wt.value.IsOpen() {
				return domain.ErrOpenWorkTimeExists
			}
		}
	}

	workTime.ID = uuid.New()
	id := workTime.ID
	db.st.workTimes[id] = record[domain.WorkTime]{seq: db.nextSeq(), value: detachWorkTime(workTime)}
	r.s.tx.onRollback(func(st *state) { delete(st.workTimes, id) })

	return nil
}

func (r *workTimeRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.WorkTime, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.st.workTimes[id]
	if !ok {
		return nil, domain.ErrWorkTimeNotFound
	}
	return cloneWorkTime(rec.value), nil
}

func (r *workTimeRepository) GetOpenByEmployee(_ context.Context, employeeID uuid.UUID) (*domain.WorkTime, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, rec := range db.st.workTimes {
		if rec.value.EmployeeID == employeeID && rec.value.IsOpen() {
			return cloneWorkTime(rec.value), nil
		}
	}
	return nil, domain.ErrWorkTimeNotFound
}

// Close обновляет только открытую сессию
func (r *workTimeRepository) Close(_ context.Context, workTime *domain.WorkTime) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.st.workTimes[workTime.ID]
	if !ok || !rec.value.IsOpen() {
		return domain.ErrWorkTimeNotFound
	}

	prev := rec
	end := *workTime.EndDate
	rec.value.EndDate = &end
	rec.value.EndStationID = copyUUID(workTime.EndStationID)
	db.st.workTimes[workTime.ID] = rec
	id := workTime.ID
	r.s.tx.onRollback(func(st *state) { st.workTimes[id] = prev })

	return nil
}

func (r *workTimeRepository) List(_ context.Context, filter repository.WorkTimeFilter) ([]*domain.WorkTime, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	values := sortedValues(db.st.workTimes, func(wt domain.WorkTime) bool {
		if filter.EmployeeID != nil && wt.EmployeeID != *filter.EmployeeID {
			return false
		}
		if filter.WorkSpaceID != nil && wt.WorkSpaceID != *filter.WorkSpaceID {
			return false
		}
		if filter.From != nil && wt.StartDate.Before(*filter.From) {
			return false
		}
		if filter.To != nil && (wt.EndDate == nil || wt.EndDate.After(*filter.To)) {
			return false
		}
		return true
	})
	reverse(values)

	values = paginate(values, filter.Page)
	workTimes := make([]*domain.WorkTime, 0, len(values))
	for _, v := range values {
		workTimes = append(workTimes, cloneWorkTime(v))
	}
	return workTimes, nil
}

func (r *workTimeRepository) CountOpen(_ context.Context) (int, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	count := 0
	for _, rec := range db.st.workTimes {
		if rec.value.IsOpen() {
			count++
		}
	}
	return count, nil
}

// detachWorkTime копирует сессию без связанных данных
func detachWorkTime(wt *domain.WorkTime) domain.WorkTime {
	v := *wt
	v.Employee, v.WorkSpace, v.StartStation, v.EndStation = nil, nil, nil, nil
	v.StartStationID = copyUUID(wt.StartStationID)
	v.EndStationID = copyUUID(wt.EndStationID)
	if wt.EndDate != nil {
		end := *wt.EndDate
		v.EndDate = &end
	}
	return v
}

func cloneWorkTime(wt domain.WorkTime) *domain.WorkTime {
	v := detachWorkTime(&wt)
	return &v
}
