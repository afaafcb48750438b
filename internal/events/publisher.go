// Package events publishes bidding domain events to the message broker.
// Publishing never blocks the bidding flow: failures are logged and returned
// so the caller can ignore them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crowd-bidding/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultRoundClosedQueue is the durable queue round closures are published to
const DefaultRoundClosedQueue = "bidding.round_closed"

// DefaultDialTimeout bounds connecting and handshaking with the broker
const DefaultDialTimeout = 2 * time.Second

// RoundClosedEvent is published once per round when it closes. Operator
// dashboards consume it to queue the winning song.
type RoundClosedEvent struct {
	RoundID            string   `json:"round_id"`
	OrganizationID     string   `json:"organization_id"`
	RoundNumber        int      `json:"round_number"`
	WinningRequestID   string   `json:"winning_request_id,omitempty"`
	WinningAmountCents int64    `json:"winning_amount_cents"`
	ReturnedRequestIDs []string `json:"returned_request_ids"`
	ClosedAt           string   `json:"closed_at"`
}

// Publisher sends domain events
type Publisher interface {
	PublishRoundClosed(ctx context.Context, event RoundClosedEvent) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

// PublishRoundClosed does nothing
func (NoopPublisher) PublishRoundClosed(context.Context, RoundClosedEvent) error { return nil }

// AMQPPublisher publishes persistent JSON messages to a durable RabbitMQ queue
type AMQPPublisher struct {
	url         string
	queue       string
	dialTimeout time.Duration
}

// NewAMQPPublisher creates a publisher for the broker at url
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	if queue == "" {
		queue = DefaultRoundClosedQueue
	}
	return &AMQPPublisher{url: url, queue: queue, dialTimeout: DefaultDialTimeout}
}

// WithDialTimeout sets how long connecting to the broker may take
func (p *AMQPPublisher) WithDialTimeout(d time.Duration) *AMQPPublisher {
	if d > 0 {
		p.dialTimeout = d
	}
	return p
}

// PublishRoundClosed publishes event to the round-closed queue
func (p *AMQPPublisher) PublishRoundClosed(ctx context.Context, event RoundClosedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal round closed: %w", err)
	}
	if err := p.publish(ctx, body); err != nil {
		utils.Warn("events: publish round closed failed", map[string]any{
			"round_id": event.RoundID,
			"queue":    p.queue,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, body []byte) error {
	timeout := p.dialTimeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return fmt.Errorf("events: dial broker: %w", context.DeadlineExceeded)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("events: dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("events: open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("events: declare queue %s: %w", p.queue, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("events: publish to %s: %w", p.queue, err)
	}
	return nil
}
