package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/parking-registry/internal/metrics"
)

// Publisher hands changes to the broker.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Noop discards every change. It is used when EVENTS_ENABLED is false.
type Noop struct{}

func (Noop) Publish(context.Context, Change) error { return nil }

// AMQPPublisher publishes changes as persistent JSON messages on QueueName.
// Each call opens its own connection, so a broker outage only affects the
// publishes attempted during it.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url}
}

func (p *AMQPPublisher) Publish(ctx context.Context, c Change) error {
	err := p.publish(ctx, c)
	if err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, c Change) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return fmt.Errorf("events: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("events: channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("events: queue declare: %w", err)
	}

	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    c.ID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, msg); err != nil {
		return fmt.Errorf("events: publish: %w", err)
	}
	return nil
}
