// Package eventstore is the client-side state container for events and
// their RSVP lists. Reads come from memory; every write goes through a Gateway.
package eventstore

import (
	"strings"
	"sync"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

const (
	DefaultOrigin      = "https://alchies.netlify.app"
	defaultSyncTimeout = 10 * time.Second
)

// SyncState tracks an optimistic change the gateway has not confirmed.
type SyncState struct {
	Pending bool
	Err     string
}

// State is an immutable snapshot handed to subscribers.
// Version grows by one per change; subscribers may drop older versions.
type State struct {
	Version uint64
	Events  []domain.Event
	Status  Status
	Err     string
	Sync    map[string]SyncState
}

type Store struct {
	gw          Gateway
	clock       Clock
	origin      string
	newToken    func() string
	syncTimeout time.Duration

	mu      sync.Mutex
	version uint64
	gen     uint64
	events  []domain.Event
	status  Status
	err     string
	sync    map[string]SyncState
	syncSeq map[string]uint64

	subs    map[int]func(State)
	nextSub int

	fetches singleflight.Group
	bg      sync.WaitGroup
}

// New returns an empty idle store. A nil clock uses the wall clock and an
// empty origin falls back to DefaultOrigin.
func New(gw Gateway, clock Clock, origin string) *Store {
	if clock == nil {
		clock = systemClock{}
	}
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = DefaultOrigin
	}
	return &Store{
		gw:          gw,
		clock:       clock,
		origin:      origin,
		newToken:    uuid.NewString,
		syncTimeout: defaultSyncTimeout,
		status:      StatusIdle,
		sync:        map[string]SyncState{},
		syncSeq:     map[string]uint64{},
		subs:        map[int]func(State){},
	}
}

// Subscribe registers fn for every state change and returns its cancel func.
// fn runs on the goroutine that made the change, outside the store lock.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Reset empties the store and invalidates in-flight fetches. A fetch started
// afterwards never joins one started before.
func (s *Store) Reset() {
	s.apply(func() {
		s.fetches.Forget(fetchKey(s.gen))
		s.gen++
		s.events = nil
		s.status = StatusIdle
		s.err = ""
		s.sync = map[string]SyncState{}
	})
}

// Wait blocks until background archive syncs have finished.
func (s *Store) Wait() {
	s.bg.Wait()
}

func (s *Store) ShareableLink(token string) string {
	return s.origin + "/event/" + token
}

// apply runs fn under the lock, bumps the version and notifies subscribers.
func (s *Store) apply(fn func()) {
	s.mu.Lock()
	fn()
	s.version++
	snap := s.snapshotLocked()
	subs := make([]func(State), 0, len(s.subs))
	for _, f := range s.subs {
		subs = append(subs, f)
	}
	s.mu.Unlock()

	for _, f := range subs {
		f(snap)
	}
}

func (s *Store) snapshotLocked() State {
	events := make([]domain.Event, len(s.events))
	for i, e := range s.events {
		events[i] = e.Clone()
	}
	syncs := make(map[string]SyncState, len(s.sync))
	for k, v := range s.sync {
		syncs[k] = v
	}
	return State{
		Version: s.version,
		Events:  events,
		Status:  s.status,
		Err:     s.err,
		Sync:    syncs,
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

// replaceLocked swaps in a gateway-confirmed copy. Events not held locally are ignored.
func (s *Store) replaceLocked(ev domain.Event) {
	if i := s.indexLocked(ev.ID); i >= 0 {
		s.events[i] = ev.Clone()
	}
}
