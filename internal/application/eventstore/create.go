package eventstore

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/baechuer/alchies-rsvp/internal/roster"
)

// Create seeds the default roster when the draft has no RSVPs, fills in a
// shareable link when missing, and appends the gateway's event.
// Required fields are the caller's job (see domain.ValidateDraft).
func (s *Store) Create(ctx context.Context, d domain.Draft) (domain.Event, error) {
	if err := domain.CheckRSVPs(d.RSVPs); err != nil {
		return domain.Event{}, err
	}
	if len(d.RSVPs) == 0 {
		d.RSVPs = roster.DefaultRSVPs()
	}
	if d.ShareableLink == "" {
		d.ShareableLink = s.ShareableLink(s.newToken())
	}

	ev, err := s.gw.Create(ctx, d)
	if err != nil {
		return domain.Event{}, err
	}

	s.apply(func() {
		s.events = append(s.events, ev.Clone())
	})
	return ev, nil
}
