package event

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// Get reads through the detail cache when one is configured. A fill that
// overlaps an invalidation is removed again so a pre-write read cannot
// outlive the write in the cache.
func (s *Service) Get(ctx context.Context, id string) (domain.Event, error) {
	key := cacheKeyEventDetails(id)
	epoch := s.cacheEpoch.Load()

	if s.cache != nil {
		var cached domain.Event
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			zlog.Debug().Str("key", key).Msg("cache hit")
			return cached, nil
		}
	}

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, e, s.ttlDetails); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		} else if s.cacheEpoch.Load() != epoch {
			zlog.Debug().Str("key", key).Msg("dropping cache fill raced by a write")
			if err := s.cache.Delete(ctx, key); err != nil {
				zlog.Warn().Err(err).Str("key", key).Msg("cache delete failed")
			}
		}
	}
	return e, nil
}
