// Package event is the server side of the events wire contract.
package event

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	stockpicker "github.com/baechuer/alchies-rsvp/internal/infrastructure/imagehost/stock"
	"github.com/google/uuid"
)

const defaultOrigin = "https://alchies.netlify.app"

type Service struct {
	repo   Repository
	pub    EventPublisher
	cache  Cache
	images ImageHost
	stock  StockPicker
	clock  Clock

	origin     string
	ttlDetails time.Duration
	newID      func() string

	// cacheEpoch advances on every invalidation. A read-through fill that
	// raced with one is dropped.
	cacheEpoch atomic.Uint64
}

// New wires the service. pub, cache, images and stock may be nil; a nil
// image host sends every upload to the stock picker.
func New(
	repo Repository,
	clock Clock,
	pub EventPublisher,
	cache Cache,
	images ImageHost,
	stock StockPicker,
	origin string,
	ttlDetails time.Duration,
) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if pub == nil {
		pub = discardPublisher{}
	}
	if stock == nil {
		stock = stockpicker.New()
	}
	if ttlDetails == 0 {
		ttlDetails = 5 * time.Minute
	}
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = defaultOrigin
	}

	return &Service{
		repo:       repo,
		pub:        pub,
		cache:      cache,
		images:     images,
		stock:      stock,
		clock:      clock,
		origin:     origin,
		ttlDetails: ttlDetails,
		newID:      uuid.NewString,
	}
}

func cacheKeyEventDetails(id string) string {
	return fmt.Sprintf("event:%s", id)
}
