package event

import (
	"context"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Repository stores one document per event. Get, Update and Delete return
// domain not_found errors for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	Insert(ctx context.Context, e domain.Event) error
	// Update loads the document, runs mutate on it and writes it back as one unit.
	Update(ctx context.Context, id string, mutate func(*domain.Event)) (domain.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}

// discardPublisher is used when no broker is configured.
type discardPublisher struct{}

func (discardPublisher) PublishEvent(context.Context, string, any) error { return nil }

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ImageHost stores an uploaded image and returns its public URL and id.
type ImageHost interface {
	Upload(ctx context.Context, data []byte) (url, id string, err error)
}

type StockPicker interface {
	Pick() (url, id string)
}
