package eventstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

// --- Mocks & Helpers ---

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var errUnreachable = errors.New("dial tcp 127.0.0.1:8888: connect: connection refused")

// fakeGateway is an in-process document store with failure injection.
type fakeGateway struct {
	mu    sync.Mutex
	clock *fakeClock
	seq   int
	byID  map[string]domain.Event
	order []string

	down     bool
	getAllFn func() // runs before GetAll returns, outside the lock
	uploads  int
	updates  []domain.Patch
	getAlls  int
}

func newFakeGateway(clock *fakeClock) *fakeGateway {
	return &fakeGateway{clock: clock, byID: map[string]domain.Event{}}
}

func (g *fakeGateway) setGetAllHook(fn func()) {
	g.mu.Lock()
	g.getAllFn = fn
	g.mu.Unlock()
}

func (g *fakeGateway) getAllCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.getAlls
}

func (g *fakeGateway) SetDown(down bool) {
	g.mu.Lock()
	g.down = down
	g.mu.Unlock()
}

func (g *fakeGateway) remoteErr() error {
	return domain.ErrRemote("gateway unreachable", errUnreachable)
}

func (g *fakeGateway) GetAll(ctx context.Context) ([]domain.Event, error) {
	g.mu.Lock()
	g.getAlls++
	hook := g.getAllFn
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrRemote("GET /events", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.down {
		return nil, g.remoteErr()
	}
	out := make([]domain.Event, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.byID[id].Clone())
	}
	return out, nil
}

func (g *fakeGateway) GetByID(ctx context.Context, id string) (domain.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.down {
		return domain.Event{}, g.remoteErr()
	}
	e, ok := g.byID[id]
	if !ok {
		return domain.Event{}, domain.ErrNotFound("Event not found")
	}
	return e.Clone(), nil
}

func (g *fakeGateway) Create(ctx context.Context, d domain.Draft) (domain.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.down {
		return domain.Event{}, g.remoteErr()
	}
	g.seq++
	e := domain.NewEvent(fmt.Sprintf("ev-%d", g.seq), d, g.clock.Now())
	g.byID[e.ID] = e
	g.order = append(g.order, e.ID)
	return e.Clone(), nil
}

func (g *fakeGateway) Update(ctx context.Context, id string, p domain.Patch) (domain.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.down {
		return domain.Event{}, g.remoteErr()
	}
	e, ok := g.byID[id]
	if !ok {
		return domain.Event{}, domain.ErrNotFound("Event not found")
	}
	g.updates = append(g.updates, p)
	p.Apply(&e)
	e.Touch(g.clock.Now())
	g.byID[id] = e
	return e.Clone(), nil
}

func (g *fakeGateway) Delete(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.down {
		return g.remoteErr()
	}
	if _, ok := g.byID[id]; !ok {
		return domain.ErrNotFound("Event not found")
	}
	delete(g.byID, id)
	for i, v := range g.order {
		if v == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

func (g *fakeGateway) UploadImage(ctx context.Context, image []byte) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.down {
		return "", g.remoteErr()
	}
	g.uploads++
	return fmt.Sprintf("https://cdn.example.com/events/%d.jpg", g.uploads), nil
}

func (g *fakeGateway) stored(id string) (domain.Event, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.byID[id]
	return e.Clone(), ok
}

func beachBBQ() domain.Draft {
	return domain.Draft{
		Title:    "Beach BBQ",
		Date:     "2023-06-15",
		Time:     "15:00",
		Location: "Sunny Beach",
		Organizer: domain.User{
			ID:   "1",
			Name: "Aubrey",
		},
	}
}

func newTestStore() (*Store, *fakeGateway, *fakeClock) {
	clock := newFakeClock()
	gw := newFakeGateway(clock)
	return New(gw, clock, "https://rsvp.example.com/"), gw, clock
}
