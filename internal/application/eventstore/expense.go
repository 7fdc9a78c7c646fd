package eventstore

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/google/uuid"
)

// AddExpense appends an itemised expense and writes the whole list back.
// totalExpense is not touched; the two are tracked independently.
func (s *Store) AddExpense(ctx context.Context, eventID string, exp domain.Expense) (domain.Event, error) {
	cur, err := s.gw.GetByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}

	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	if exp.Date == "" {
		exp.Date = s.clock.Now().UTC().Format("2006-01-02")
	}
	expenses := append(append([]domain.Expense{}, cur.Expenses...), exp)

	return s.UpdateFields(ctx, eventID, domain.Patch{Expenses: &expenses})
}

func (s *Store) SetTotalExpense(ctx context.Context, eventID string, amount float64) (domain.Event, error) {
	return s.UpdateFields(ctx, eventID, domain.Patch{TotalExpense: &amount})
}
