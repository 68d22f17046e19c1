package memory

import (
	"context"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

type employeeRepository struct {
	s *store
}

func (r *employeeRepository) Create(_ context.Context, employee *domain.Employee) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	employee.ID = uuid.New()
	employee.CreatedAt = time.Now()
	id := employee.ID
	db.st.employees[id] = record[domain.Employee]{seq: db.nextSeq(), value: *employee}
	r.s.tx.onRollback(func(st *state) { delete(st.employees, id) })

	return nil
}

func (r *employeeRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Employee, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.st.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	employee := rec.value
	return &employee, nil
}

func (r *employeeRepository) List(_ context.Context, page repository.Page) ([]*domain.Employee, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	values := paginate(sortedValues(db.st.employees, nil), page)
	employees := make([]*domain.Employee, 0, len(values))
	for i := range values {
		employees = append(employees, &values[i])
	}
	return employees, nil
}

// Delete удаляет сотрудника каскадно: логи карт, карты, рабочие сессии
func (r *employeeRepository) Delete(_ context.Context, id uuid.UUID) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.st.employees[id]
	if !ok {
		return domain.ErrEmployeeNotFound
	}

	for cardID, card := range db.st.cards {
		if card.value.EmployeeID != id {
			continue
		}
		for logID, log := range db.st.cardLogs {
			if log.value.EmployeeCardID == cardID {
				r.s.deleteCardLog(logID, log)
			}
		}
		delete(db.st.cards, cardID)
		cardID, card := cardID, card
		r.s.tx.onRollback(func(st *state) { st.cards[cardID] = card })
	}

	for wtID, wt := range db.st.workTimes {
		if wt.value.EmployeeID == id {
			r.s.deleteWorkTime(wtID, wt)
		}
	}

	delete(db.st.employees, id)
	r.s.tx.onRollback(func(st *state) { st.employees[id] = rec })

	return nil
}

// deleteCardLog должен вызываться под db.mu
func (s *store) deleteCardLog(id uuid.UUID, rec record[domain.EmployeeCardLog]) {
	delete(s.db.st.cardLogs, id)
	s.tx.onRollback(func(st *state) { st.cardLogs[id] = rec })
}

// deleteWorkTime должен вызываться под db.mu
func (s *store) deleteWorkTime(id uuid.UUID, rec record[domain.WorkTime]) {
	delete(s.db.st.workTimes, id)
	s.tx.onRollback(func(st *state) { st.workTimes[id] = rec })
}
