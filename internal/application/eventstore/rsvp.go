package eventstore

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

// UpdateRSVP re-reads the event from the gateway, merges rsvp into its list
// and writes the whole list back in one update.
//
// The read and the write are not atomic: two concurrent calls on the same
// event can each read the old list, and the later write drops the other's
// change.
func (s *Store) UpdateRSVP(ctx context.Context, eventID string, rsvp domain.RSVP) (domain.Event, error) {
	cur, err := s.gw.GetByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}

	merged, _ := domain.MergeRSVP(cur.RSVPs, rsvp)
	return s.writeRSVPs(ctx, eventID, merged)
}

// UpdateRating sets or clears (nil) one user's rating. It fails with
// not_found when the user has no RSVP on the event.
func (s *Store) UpdateRating(ctx context.Context, eventID, userID string, rating *float64) (domain.Event, error) {
	if !domain.ValidRating(rating) {
		return domain.Event{}, domain.ErrValidationMeta("rating must be between 0 and 10", map[string]string{"user_id": userID})
	}

	cur, err := s.gw.GetByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}

	rsvps, err := domain.SetRating(cur.RSVPs, userID, rating)
	if err != nil {
		return domain.Event{}, err
	}
	return s.writeRSVPs(ctx, eventID, rsvps)
}

func (s *Store) writeRSVPs(ctx context.Context, eventID string, rsvps []domain.RSVP) (domain.Event, error) {
	ev, err := s.gw.Update(ctx, eventID, domain.Patch{RSVPs: &rsvps})
	if err != nil {
		return domain.Event{}, err
	}
	return s.commit(ev), nil
}
