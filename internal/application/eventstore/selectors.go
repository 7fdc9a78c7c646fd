package eventstore

import (
	"sort"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

func (s *Store) Get(id string) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.events[i].Clone(), true
	}
	return domain.Event{}, false
}

// Active returns events that are not archived, in collection order.
func (s *Store) Active() []domain.Event {
	return s.filter(func(e domain.Event) bool { return !e.IsArchived })
}

// Memories returns archived events.
func (s *Store) Memories() []domain.Event {
	return s.filter(func(e domain.Event) bool { return e.IsArchived })
}

// VisitedLocations returns archived events that carry coordinates.
func (s *Store) VisitedLocations() []domain.Event {
	return s.filter(func(e domain.Event) bool { return e.IsArchived && e.LocationDetails != nil })
}

type MonthGroup struct {
	Month  string // "June 2023"
	Events []domain.Event
}

// MemoriesByMonth groups archived events by month, newest month first.
// Events with an unparseable date are left out.
func (s *Store) MemoriesByMonth() []MonthGroup {
	type bucket struct {
		start time.Time
		group MonthGroup
	}
	byKey := map[string]*bucket{}
	for _, e := range s.Memories() {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		key := start.Format("January 2006")
		b, ok := byKey[key]
		if !ok {
			b = &bucket{start: start, group: MonthGroup{Month: key}}
			byKey[key] = b
		}
		b.group.Events = append(b.group.Events, e)
	}

	buckets := make([]*bucket, 0, len(byKey))
	for _, b := range byKey {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].start.After(buckets[j].start) })

	out := make([]MonthGroup, len(buckets))
	for i, b := range buckets {
		out[i] = b.group
	}
	return out
}

func (s *Store) filter(keep func(domain.Event) bool) []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Event
	for _, e := range s.events {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}
