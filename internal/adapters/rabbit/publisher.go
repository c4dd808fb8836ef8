package rabbit

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/show-booking/internal/observability"
)

const EventsExchange = "booking.events"

type Publisher struct {
	ch       *amqp.Channel
	exchange string
	retries  int
	backoff  time.Duration
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, exchange: EventsExchange, retries: 3, backoff: 200 * time.Millisecond}, nil
}

// Publish sends msg with key as the routing key, retrying transient channel
// errors a few times before giving up.
func (p *Publisher) Publish(ctx context.Context, key string, msg amqp.Publishing) error {
	var err error
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			observability.RabbitPublishRetries.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.backoff * time.Duration(attempt)):
			}
		}
		err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
		if err == nil {
			return nil
		}
	}
	return err
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
