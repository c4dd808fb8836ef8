package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/show-booking/internal/adapters/crdb"
	"github.com/robertarktes/show-booking/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	pending []crdb.OutboxRecord
}

func (s *fakeStore) RelayOutbox(ctx context.Context, limit int, publish func(context.Context, crdb.OutboxRecord) error) (int, error) {
	n := 0
	for len(s.pending) > 0 && n < limit {
		if err := publish(ctx, s.pending[0]); err != nil {
			return n, err
		}
		s.pending = s.pending[1:]
		n++
	}
	return n, nil
}

func (s *fakeStore) OldestUnpublished(context.Context) (time.Time, error) {
	if len(s.pending) == 0 {
		return time.Time{}, nil
	}
	return s.pending[0].CreatedAt, nil
}

type fakeBroker struct {
	keys   []string
	failOn string
}

func (b *fakeBroker) Publish(_ context.Context, key string, msg amqp.Publishing) error {
	if key == b.failOn {
		return errors.New("channel closed")
	}
	b.keys = append(b.keys, key)
	return nil
}

func records(types ...string) []crdb.OutboxRecord {
	out := make([]crdb.OutboxRecord, len(types))
	for i, ty := range types {
		id := uuid.New()
		out[i] = crdb.OutboxRecord{ID: id, EventType: ty, DedupeKey: id.String(), CreatedAt: time.Now()}
	}
	return out
}

func TestPublisher_Flush(t *testing.T) {
	t.Run("drains across batches in order", func(t *testing.T) {
		store := &fakeStore{pending: records("hold.requested", "hold.approved", "opportunity.confirmed")}
		broker := &fakeBroker{}
		p := NewPublisher(store, broker, observability.NewNopLogger(), time.Second)
		p.batch = 2

		n, err := p.Flush(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{"hold.requested", "hold.approved", "opportunity.confirmed"}, broker.keys)
		assert.Empty(t, store.pending)
	})

	t.Run("stops at the first failure and keeps the rest", func(t *testing.T) {
		store := &fakeStore{pending: records("hold.requested", "hold.approved", "hold.ended")}
		broker := &fakeBroker{failOn: "hold.approved"}
		p := NewPublisher(store, broker, observability.NewNopLogger(), time.Second)

		n, err := p.Flush(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, n)
		assert.Len(t, store.pending, 2)
	})
}
