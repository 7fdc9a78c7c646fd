package eventstore

import (
	"context"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Gateway is the persistence boundary. Every failure surfaces as a
// *domain.AppError with CodeNotFound or CodeRemote. It never retries.
type Gateway interface {
	GetAll(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Create(ctx context.Context, d domain.Draft) (domain.Event, error)
	Update(ctx context.Context, id string, p domain.Patch) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, image []byte) (string, error)
}
