package eventstore

import (
	"context"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// Archive flips isArchived locally right away and syncs in the background.
// A failed sync is logged and recorded in State.Sync; it is never rolled
// back and never returned. Unknown ids are ignored.
func (s *Store) Archive(ctx context.Context, id string) {
	s.setArchived(ctx, id, true)
}

func (s *Store) Unarchive(ctx context.Context, id string) {
	s.setArchived(ctx, id, false)
}

func (s *Store) setArchived(ctx context.Context, id string, archived bool) {
	op := "unarchive"
	if archived {
		op = "archive"
	}

	var (
		seq   uint64
		found bool
	)
	s.apply(func() {
		i := s.indexLocked(id)
		if i < 0 {
			return
		}
		found = true
		s.events[i].IsArchived = archived
		s.events[i].Touch(s.clock.Now())
		s.syncSeq[id]++
		seq = s.syncSeq[id]
		s.sync[id] = SyncState{Pending: true}
	})
	if !found {
		zlog.Warn().Str("event_id", id).Str("op", op).Msg("event not loaded, skipping")
		return
	}

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.syncTimeout)
		defer cancel()

		_, err := s.gw.Update(sctx, id, domain.Patch{IsArchived: &archived})
		s.finishSync(id, op, seq, err)
	}()
}

func (s *Store) finishSync(id, op string, seq uint64, err error) {
	if err != nil {
		archiveSyncTotal.WithLabelValues(op, "error").Inc()
		zlog.Error().Err(err).Str("event_id", id).Str("op", op).Msg("background sync failed")
	} else {
		archiveSyncTotal.WithLabelValues(op, "ok").Inc()
	}

	s.apply(func() {
		// A newer toggle owns the sync state.
		if s.syncSeq[id] != seq {
			return
		}
		if err != nil {
			s.sync[id] = SyncState{Err: err.Error()}
			return
		}
		delete(s.sync, id)
	})
}
