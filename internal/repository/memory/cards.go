package memory

import (
	"context"
	"time"

	"github.com/frontandrew/stationtime/internal/domain"
	"github.com/frontandrew/stationtime/internal/repository"
	"github.com/google/uuid"
)

type employeeCardRepository struct {
	s *store
}

func (r *employeeCardRepository) Create(_ context.Context, card *domain.EmployeeCard) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.st.employees[card.EmployeeID]; !ok {
		return domain.ErrEmployeeNotFound
	}

	card.ID = uuid.New()
	card.CreatedAt = time.Now()
	id := card.ID
	stored := *card
	stored.Employee = nil
	db.st.cards[id] = record[domain.EmployeeCard]{seq: db.nextSeq(), value: stored}
	r.s.tx.onRollback(func(st *state) { delete(st.cards, id) })

	return nil
}

func (r *employeeCardRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.EmployeeCard, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.st.cards[id]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	card := rec.value
	return &card, nil
}

// GetByCardNumber - при дубликатах номера берется самая ранняя карта
func (r *employeeCardRepository) GetByCardNumber(_ context.Context, cardNumber string) (*domain.EmployeeCard, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	number := domain.NormalizeCardNumber(cardNumber)
	cards := sortedValues(db.st.cards, func(c domain.EmployeeCard) bool {
		return c.CardNumber == number
	})
	if len(cards) == 0 {
		return nil, domain.ErrCardNotFound
	}
	return &cards[0], nil
}

func (r *employeeCardRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	db := r.s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.st.cards[id]
	if !ok {
		return domain.ErrCardNotFound
	}
	prev := rec
	rec.value.IsActive = active
	db.st.cards[id] = rec
	r.s.tx.onRollback(func(st *state) { st.cards[id] = prev })

	return nil
}

func (r *employeeCardRepository) List(_ context.Context, page repository.Page) ([]*domain.EmployeeCard, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	values := paginate(sortedValues(db.st.cards, nil), page)
	cards := make([]*domain.EmployeeCard, 0, len(values))
	for i := range values {
		cards = append(cards, &values[i])
	}
	return cards, nil
}

func (r *employeeCardRepository) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]*domain.EmployeeCard, error) {
	db := r.s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	values := sortedValues(db.st.cards, func(c domain.EmployeeCard) bool {
		return c.EmployeeID == employeeID
	})
	cards := make([]*domain.EmployeeCard, 0, len(values))
	for i := range values {
		cards = append(cards, &values[i])
	}
	return cards, nil
}
