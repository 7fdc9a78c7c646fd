package eventstore

import (
	"context"
	"errors"
	"strconv"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// ErrSuperseded is returned by FetchAll when Reset ran while it was in flight.
// The fetched result is discarded.
var ErrSuperseded = errors.New("eventstore: fetch superseded")

// FetchAll replaces the collection with the gateway's events ordered by date.
// On failure the collection is left as it was and the error is recorded in
// the state as well as returned. Concurrent calls within one generation share
// a single gateway request; the request outlives any one caller's context, and
// a caller whose ctx ends stops waiting without touching the state.
func (s *Store) FetchAll(ctx context.Context) error {
	var gen uint64
	s.apply(func() {
		gen = s.gen
		s.status = StatusLoading
		s.err = ""
	})

	ch := s.fetches.DoChan(fetchKey(gen), func() (any, error) {
		events, err := s.gw.GetAll(context.WithoutCancel(ctx))
		return nil, s.commitFetch(gen, events, err)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func fetchKey(gen uint64) string {
	return "all/" + strconv.FormatUint(gen, 10)
}

// commitFetch applies a gateway result if gen is still current.
func (s *Store) commitFetch(gen uint64, fetched []domain.Event, err error) error {
	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		zlog.Debug().Msg("discarding superseded fetch")
		return ErrSuperseded
	}

	if err != nil {
		zlog.Warn().Err(err).Msg("fetch events failed")
		s.apply(func() {
			if gen != s.gen {
				return
			}
			s.status = StatusFailed
			s.err = failureMessage(err)
		})
		return err
	}

	events := make([]domain.Event, len(fetched))
	for i, e := range fetched {
		events[i] = e.Clone()
	}
	domain.SortByDate(events)

	s.apply(func() {
		if gen != s.gen {
			return
		}
		s.events = events
		s.status = StatusSucceeded
		s.err = ""
		for id := range s.sync {
			if s.indexLocked(id) < 0 {
				delete(s.sync, id)
			}
		}
	})
	return nil
}

func failureMessage(err error) string {
	var ae *domain.AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if err.Error() != "" {
		return err.Error()
	}
	return "Failed to fetch events"
}
