// Package memory is a process-local event repository for dev and tests.
package memory

import (
	"context"
	"sync"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

type Repo struct {
	mu    sync.RWMutex
	byID  map[string]domain.Event
	order []string
}

// New returns a repository holding copies of seed.
func New(seed ...domain.Event) *Repo {
	r := &Repo{byID: map[string]domain.Event{}}
	for _, e := range seed {
		r.byID[e.ID] = e.Clone()
		r.order = append(r.order, e.ID)
	}
	return r
}

func (r *Repo) List(ctx context.Context) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Event, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return domain.Event{}, domain.ErrNotFound("Event not found")
	}
	return e.Clone(), nil
}

func (r *Repo) Insert(ctx context.Context, e domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; ok {
		return domain.ErrValidationMeta("duplicate event id", map[string]string{"id": e.ID})
	}
	r.byID[e.ID] = e.Clone()
	r.order = append(r.order, e.ID)
	return nil
}

// Update holds the write lock across mutate, so updates to one event never interleave.
func (r *Repo) Update(ctx context.Context, id string, mutate func(*domain.Event)) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return domain.Event{}, domain.ErrNotFound("Event not found")
	}
	e = e.Clone()
	mutate(&e)
	e.ID = id
	r.byID[id] = e
	return e.Clone(), nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound("Event not found")
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
