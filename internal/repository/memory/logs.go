package memory

import (
	"context"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

type employeeCardLogRepository struct {
	s *store
}

func (r *employeeCardLogRepository) Create(_ context.Context, log *domain.EmployeeCardLog) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.st.cards[log.EmployeeCardID]; !ok {
		return domain.ErrCardNotFound
	}

	log.ID = uuid.New()
	if log.Date.IsZero() {
		log.Date = time.Now()
	}
	id := log.ID
	stored := *log
	stored.StationID = copyUUID(log.StationID)
	db.st.cardLogs[id] = record[domain.EmployeeCardLog]{seq: db.nextSeq(), value: stored}
	r.s.tx.onRollback(func(st *state) { delete(st.cardLogs, id) })

	return nil
}

func (r *employeeCardLogRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.EmployeeCardLog, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.st.cardLogs[id]
	if !ok {
		return nil, domain.ErrCardLogNotFound
	}
	log := rec.value
	log.StationID = copyUUID(rec.value.StationID)
	return &log, nil
}

func (r *employeeCardLogRepository) List(_ context.Context, filter repository.CardLogFilter) ([]*domain.EmployeeCardLog, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	values := sortedValues(db.st.cardLogs, func(l domain.EmployeeCardLog) bool {
		if filter.StationID != nil && (l.StationID == nil || *l.StationID != *filter.StationID) {
			return false
		}
		if filter.CardID != nil && l.EmployeeCardID != *filter.CardID {
			return false
		}
		return filter.DateRange.Contains(l.Date)
	})
	reverse(values)

	values = paginate(values, filter.Page)
	logs := make([]*domain.EmployeeCardLog, 0, len(values))
	for i := range values {
		values[i].StationID = copyUUID(values[i].StationID)
		logs = append(logs, &values[i])
	}
	return logs, nil
}

type weatherDataRepository struct {
	s *store
}

func (r *weatherDataRepository) Create(_ context.Context, data *domain.WeatherData) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.st.stations[data.StationID]; !ok {
		return domain.ErrStationNotFound
	}

	data.ID = uuid.New()
	if data.Date.IsZero() {
		data.Date = time.Now()
	}
	id := data.ID
	db.st.weatherData[id] = record[domain.WeatherData]{seq: db.nextSeq(), value: *data}
	r.s.tx.onRollback(func(st *state) { delete(st.weatherData, id) })

	return nil
}

func (r *weatherDataRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.WeatherData, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.st.weatherData[id]
	if !ok {
		return nil, domain.ErrWeatherDataNotFound
	}
	data := rec.value
	return &data, nil
}

func (r *weatherDataRepository) List(_ context.Context, filter repository.WeatherDataFilter) ([]*domain.WeatherData, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	values := sortedValues(db.st.weatherData, func(d domain.WeatherData) bool {
		if filter.StationID != nil && d.StationID != *filter.StationID {
			return false
		}
		return filter.DateRange.Contains(d.Date)
	})
	reverse(values)

	values = paginate(values, filter.Page)
	data := make([]*domain.WeatherData, 0, len(values))
	for i := range values {
		data = append(data, &values[i])
	}
	return data, nil
}
