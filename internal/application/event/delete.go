package event

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

// Archive is the soft delete: the document stays and isArchived is set.
func (s *Service) Archive(ctx context.Context, id string) error {
	now := s.clock.Now()
	e, err := s.repo.Update(ctx, id, func(e *domain.Event) {
		e.IsArchived = true
		e.Touch(now)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, RKArchived, changedPayload(e, []string{"isArchived"}))
	return nil
}

// Delete removes the document for good.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.publish(ctx, RKDeleted, EventChangedPayload{EventID: id})
	return nil
}
