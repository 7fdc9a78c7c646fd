package eventstore

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

// UpdateFields sends a partial update and swaps the gateway's merged event
// into the collection. Nothing is read or written locally beforehand. A
// patch with duplicate RSVP user ids never reaches the gateway.
func (s *Store) UpdateFields(ctx context.Context, id string, p domain.Patch) (domain.Event, error) {
	if err := p.Check(); err != nil {
		return domain.Event{}, err
	}
	ev, err := s.gw.Update(ctx, id, p)
	if err != nil {
		return domain.Event{}, err
	}
	return s.commit(ev), nil
}

// commit writes a gateway-confirmed event into the collection.
// A locally stamped updatedAt that is ahead of the gateway's is kept.
func (s *Store) commit(ev domain.Event) domain.Event {
	s.apply(func() {
		if i := s.indexLocked(ev.ID); i >= 0 && ev.UpdatedAt.Before(s.events[i].UpdatedAt) {
			ev.UpdatedAt = s.events[i].UpdatedAt
		}
		s.replaceLocked(ev)
	})
	return ev
}
