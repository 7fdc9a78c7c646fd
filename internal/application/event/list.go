package event

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

// List returns every event, archived ones included, ordered by date.
func (s *Service) List(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortByDate(events)
	return events, nil
}
