package idempotency_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redisadapter "github.com/robertarktes/show-booking/internal/adapters/redis"
	"github.com/robertarktes/show-booking/internal/idempotency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStore struct {
	data map[string]redisadapter.IdempResponse
	ttl  time.Duration
}

func (m *mapStore) Get(_ context.Context, key string) (*redisadapter.IdempResponse, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *mapStore) Set(_ context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error {
	m.data[key] = resp
	m.ttl = ttl
	return nil
}

func TestIdempotency(t *testing.T) {
	ctx := context.Background()
	store := &mapStore{data: map[string]redisadapter.IdempResponse{}}
	idem := idempotency.NewIdempotency(store, time.Hour)
	key := idempotency.Key(uuid.New(), "POST", "/api/holds", "abc")

	got, err := idem.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, idem.Set(ctx, key, idempotency.Response{Status: 201, ContentType: "application/json", Result: []byte("{}")}))
	got, err = idem.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.Status)
	assert.Equal(t, time.Hour, store.ttl)

	other := idempotency.Key(uuid.New(), "POST", "/api/holds", "abc")
	assert.NotEqual(t, key, other)

	require.NoError(t, idem.Set(ctx, other, idempotency.Response{Status: 503}))
	got, err = idem.Get(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, got, "server errors must stay retryable")
}
