package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	appCtx "github.com/baechuer/alchies-rsvp/internal/pkg/context"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	zlog "github.com/rs/zerolog/log"
)

const (
	DefaultExchange = "alchies.events"
	appID           = "alchies-rsvp"

	confirmWait = 150 * time.Millisecond
)

var (
	ErrNoRoutingKey = errors.New("missing routing key")
	ErrNotConnected = errors.New("publisher channel not ready")
)

// Publisher emits event lifecycle notifications to a durable topic
// exchange. Messages are mandatory and confirmed; a closed channel is
// redialled once on the next publish.
type Publisher struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	confirm <-chan amqp.Confirmation
	returns <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange}
	if err := p.dial(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) dial() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	setup := func() error {
		if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %q: %w", p.exchange, err)
		}
		return ch.Confirm(false)
	}
	if err := setup(); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn, p.ch = conn, ch
	p.confirm = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returns = ch.NotifyReturn(make(chan amqp.Return, 1))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardown()
	return nil
}

func (p *Publisher) teardown() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// PublishEvent sends payload as JSON under routingKey. The request id on
// ctx, when present, travels as the correlation id.
func (p *Publisher) PublishEvent(ctx context.Context, routingKey string, payload any) error {
	if routingKey == "" {
		return ErrNoRoutingKey
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return ErrNotConnected
	}
	if p.ch.IsClosed() {
		zlog.Warn().Str("exchange", p.exchange).Msg("amqp channel closed, redialling")
		p.teardown()
		if err := p.dial(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		MessageId:     uuid.NewString(),
		CorrelationId: appCtx.GetRequestID(ctx),
		AppId:         appID,
		Type:          routingKey,
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now().UTC(),
		Body:          body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, true, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	select {
	case ret := <-p.returns:
		return fmt.Errorf("unroutable %s: %s", ret.RoutingKey, ret.ReplyText)
	case conf := <-p.confirm:
		if !conf.Ack {
			return fmt.Errorf("publish %s: broker nack", routingKey)
		}
		return nil
	case <-time.After(confirmWait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
