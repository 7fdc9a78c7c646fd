package event

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

// Update shallow-merges p into the stored event and stamps updatedAt.
func (s *Service) Update(ctx context.Context, id string, p domain.Patch) (domain.Event, error) {
	if err := p.Check(); err != nil {
		return domain.Event{}, err
	}
	now := s.clock.Now()
	e, err := s.repo.Update(ctx, id, func(e *domain.Event) {
		p.Apply(e)
		e.Touch(now)
	})
	if err != nil {
		return domain.Event{}, err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, RKUpdated, changedPayload(e, patchFields(p)))
	return e, nil
}

func patchFields(p domain.Patch) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Title != nil, "title")
	add(p.Date != nil, "date")
	add(p.Time != nil, "time")
	add(p.Location != nil, "location")
	add(p.LocationDetails != nil, "locationDetails")
	add(p.Description != nil, "description")
	add(p.ImageURL != nil, "imageUrl")
	add(p.Organizer != nil, "organizer")
	add(p.RSVPs != nil, "rsvps")
	add(p.Status != nil, "status")
	add(p.IsArchived != nil, "isArchived")
	add(p.ShareableLink != nil, "shareableLink")
	add(p.TotalExpense != nil, "totalExpense")
	add(p.Expenses != nil, "expenses")
	return out
}
