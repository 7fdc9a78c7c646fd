package eventstore

import "context"

// DeleteEvent hard-deletes through the gateway and drops the local entry
// only on success. Deleting twice fails with not_found from the gateway.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if err := s.gw.Delete(ctx, id); err != nil {
		return err
	}
	s.apply(func() {
		if i := s.indexLocked(id); i >= 0 {
			s.events = append(s.events[:i:i], s.events[i+1:]...)
		}
		delete(s.sync, id)
		delete(s.syncSeq, id)
	})
	return nil
}
