package eventstore

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

func (s *Store) UploadEventImage(ctx context.Context, eventID string, image []byte) (domain.Event, error) {
	url, err := s.gw.UploadImage(ctx, image)
	if err != nil {
		return domain.Event{}, err
	}
	return s.UpdateFields(ctx, eventID, domain.Patch{ImageURL: &url})
}
