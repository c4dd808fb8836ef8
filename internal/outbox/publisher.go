// Package outbox relays events committed to the outbox table to RabbitMQ.
package outbox

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/show-booking/internal/adapters/crdb"
	"github.com/robertarktes/show-booking/internal/observability"
)

const defaultBatch = 50

type Store interface {
	RelayOutbox(ctx context.Context, limit int, publish func(ctx context.Context, rec crdb.OutboxRecord) error) (int, error)
	OldestUnpublished(ctx context.Context) (time.Time, error)
}

type Broker interface {
	Publish(ctx context.Context, key string, msg amqp.Publishing) error
}

type Publisher struct {
	store    Store
	broker   Broker
	logger   observability.Logger
	interval time.Duration
	batch    int
	now      func() time.Time
}

func NewPublisher(store Store, broker Broker, logger observability.Logger, interval time.Duration) *Publisher {
	return &Publisher{
		store:    store,
		broker:   broker,
		logger:   logger,
		interval: interval,
		batch:    defaultBatch,
		now:      time.Now,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Flush(ctx)
			if err != nil {
				p.logger.WithError(err).Error("outbox relay failed")
				continue
			}
			if n > 0 {
				p.logger.WithField("published", n).Debug("outbox relayed")
			}
		}
	}
}

// Flush publishes batches until the outbox is drained or a publish fails.
func (p *Publisher) Flush(ctx context.Context) (int, error) {
	total := 0
	defer p.recordLag(ctx)
	for {
		n, err := p.store.RelayOutbox(ctx, p.batch, p.publish)
		total += n
		if err != nil || n < p.batch {
			return total, err
		}
	}
}

func (p *Publisher) publish(ctx context.Context, rec crdb.OutboxRecord) error {
	return p.broker.Publish(ctx, rec.EventType, amqp.Publishing{
		MessageId:    rec.DedupeKey,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    rec.CreatedAt,
		Type:         rec.EventType,
		Body:         rec.Payload,
	})
}

func (p *Publisher) recordLag(ctx context.Context) {
	oldest, err := p.store.OldestUnpublished(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("outbox lag unavailable")
		return
	}
	if oldest.IsZero() {
		observability.OutboxLag.Set(0)
		return
	}
	observability.OutboxLag.Set(p.now().Sub(oldest).Seconds())
}
