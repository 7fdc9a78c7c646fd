package event

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/baechuer/alchies-rsvp/internal/roster"
)

// Create assigns id and timestamps. The body is stored as sent; only an empty
// RSVP list and a missing shareable link are filled in. Duplicate RSVP user
// ids are rejected.
func (s *Service) Create(ctx context.Context, d domain.Draft) (domain.Event, error) {
	if err := domain.CheckRSVPs(d.RSVPs); err != nil {
		return domain.Event{}, err
	}
	if len(d.RSVPs) == 0 {
		d.RSVPs = roster.DefaultRSVPs()
	}
	if d.ShareableLink == "" {
		d.ShareableLink = s.origin + "/event/" + s.newID()
	}

	e := domain.NewEvent(s.newID(), d, s.clock.Now())
	if err := s.repo.Insert(ctx, e); err != nil {
		return domain.Event{}, err
	}

	s.publish(ctx, RKCreated, changedPayload(e, nil))
	return e, nil
}
