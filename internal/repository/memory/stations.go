package memory

import (
	"context"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

type weatherStationRepository struct {
	s *store
}

func (r *weatherStationRepository) Create(_ context.Context, station *domain.WeatherStation) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	station.ID = uuid.New()
	station.CreatedAt = time.Now()
	id := station.ID
	db.st.stations[id] = record[domain.WeatherStation]{seq: db.nextSeq(), value: *station}
	r.s.tx.onRollback(func(st *state) { delete(st.stations, id) })

	return nil
}

func (r *weatherStationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.WeatherStation, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.st.stations[id]
	if !ok {
		return nil, domain.ErrStationNotFound
	}
	station := rec.value
	return &station, nil
}

func (r *weatherStationRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.st.stations[id]
	if !ok {
		return domain.ErrStationNotFound
	}
	prev := rec
	rec.value.IsActive = active
	db.st.stations[id] = rec
	r.s.tx.onRollback(func(st *state) { st.stations[id] = prev })

	return nil
}

func (r *weatherStationRepository) List(_ context.Context, page repository.Page) ([]*domain.WeatherStation, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	values := paginate(sortedValues(db.st.stations, nil), page)
	stations := make([]*domain.WeatherStation, 0, len(values))
	for i := range values {
		stations = append(stations, &values[i])
	}
	return stations, nil
}

// Delete - явный проход по слабым ссылкам на станцию
func (r *weatherStationRepository) Delete(_ context.Context, id uuid.UUID) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.st.stations[id]
	if !ok {
		return domain.ErrStationNotFound
	}

	for logID, log := range db.st.cardLogs {
		if log.value.StationID != nil && *log.value.StationID == id {
			prev := log
			log.value.StationID = nil
			db.st.cardLogs[logID] = log
			logID := logID
			r.s.tx.onRollback(func(st *state) { st.cardLogs[logID] = prev })
		}
	}

	for wtID, wt := range db.st.workTimes {
		prev := wt
		changed := false
		if wt.value.StartStationID != nil && *wt.value.StartStationID == id {
			wt.value.StartStationID = nil
			changed = true
		}
		if wt.value.EndStationID != nil && *wt.value.EndStationID == id {
			wt.value.EndStationID = nil
			changed = true
		}
		if changed {
			db.st.workTimes[wtID] = wt
			wtID := wtID
			r.s.tx.onRollback(func(st *state) { st.workTimes[wtID] = prev })
		}
	}

	for wsID, ws := range db.st.workSpaces {
		if ws.value.StartStationID != id && ws.value.EndStationID != id {
			continue
		}
		for wtID, wt := range db.st.workTimes {
			if wt.value.WorkSpaceID == wsID {
				r.s.deleteWorkTime(wtID, wt)
			}
		}
		delete(db.st.workSpaces, wsID)
		wsID, ws := wsID, ws
		r.s.tx.onRollback(func(st *state) { st.workSpaces[wsID] = ws })
	}

	for dataID, data := range db.st.weatherData {
		if data.value.StationID == id {
			delete(db.st.weatherData, dataID)
			dataID, data := dataID, data
			r.s.tx.onRollback(func(st *state) { st.weatherData[dataID] = data })
		}
	}

	delete(db.st.stations, id)
	r.s.tx.onRollback(func(st *state) { st.stations[id] = rec })

	return nil
}
