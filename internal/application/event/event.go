package event

import (
	"context"
	"strings"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/baechuer/alchies-rsvp/internal/logger"
	appCtx "github.com/baechuer/alchies-rsvp/internal/pkg/context"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	EventVersion  = 1
	EventProducer = "rsvp-gateway"

	RKCreated  = "event.created"
	RKUpdated  = "event.updated"
	RKArchived = "event.archived"
	RKDeleted  = "event.deleted"
)

// DomainEventEnvelope is the contract for all messages this service emits.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

type EventChangedPayload struct {
	EventID    string   `json:"event_id"`
	Title      string   `json:"title,omitempty"`
	Date       string   `json:"date,omitempty"`
	IsArchived bool     `json:"is_archived"`
	Fields     []string `json:"fields,omitempty"`
	Attending  int      `json:"attending"`
	Actor      string   `json:"actor,omitempty"`
}

// TraceIDFromContext prefers the active span's trace id and falls back to
// the request id.
func TraceIDFromContext(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return strings.TrimSpace(appCtx.GetRequestID(ctx))
}

func changedPayload(e domain.Event, fields []string) EventChangedPayload {
	attending := 0
	for _, r := range e.RSVPs {
		if r.Status == domain.RSVPAttending {
			attending++
		}
	}
	return EventChangedPayload{
		EventID:    e.ID,
		Title:      e.Title,
		Date:       e.Date,
		IsArchived: e.IsArchived,
		Fields:     fields,
		Attending:  attending,
	}
}

// publish is best-effort: failures are logged, never returned. The
// authenticated caller, if any, is recorded as the actor.
func (s *Service) publish(ctx context.Context, rk string, payload EventChangedPayload) {
	payload.Actor = appCtx.GetUserID(ctx)
	logger.Ctx(ctx).Info().Str("rk", rk).Str("event_id", payload.EventID).Msg("event changed")

	env := DomainEventEnvelope[EventChangedPayload]{
		Version:    EventVersion,
		Producer:   EventProducer,
		TraceID:    TraceIDFromContext(ctx),
		OccurredAt: s.clock.Now().UTC(),
		Payload:    payload,
	}
	if err := s.pub.PublishEvent(ctx, rk, env); err != nil {
		zlog.Error().
			Err(err).
			Str("rk", rk).
			Str("event_id", payload.EventID).
			Msg("publish domain event failed")
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	s.cacheEpoch.Add(1)
	key := cacheKeyEventDetails(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}
