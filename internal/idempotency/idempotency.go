// Package idempotency replays the stored response of a mutating request
// that is retried with the same Idempotency-Key.
package idempotency

import (
	"context"
	"time"

	"github.com/google/uuid"
	redisadapter "github.com/robertarktes/show-booking/internal/adapters/redis"
)

type Store interface {
	Get(ctx context.Context, key string) (*redisadapter.IdempResponse, error)
	Set(ctx context.Context, key string, resp redisadapter.IdempResponse, ttl time.Duration) error
}

type Idempotency struct {
	store Store
	ttl   time.Duration
}

func NewIdempotency(store Store, ttl time.Duration) *Idempotency {
	return &Idempotency{store: store, ttl: ttl}
}

type Response struct {
	Status      int
	ContentType string
	Result      []byte
}

// Key scopes a client key to the caller and the route so two users (or two
// endpoints) never share a stored response.
func Key(userID uuid.UUID, method, path, clientKey string) string {
	return userID.String() + ":" + method + ":" + path + ":" + clientKey
}

func (i *Idempotency) Get(ctx context.Context, key string) (*Response, error) {
	stored, err := i.store.Get(ctx, key)
	if err != nil || stored == nil {
		return nil, err
	}
	return &Response{Status: stored.Status, ContentType: stored.ContentType, Result: stored.Result}, nil
}

// Set stores resp. Server errors are not stored so the client can retry them.
func (i *Idempotency) Set(ctx context.Context, key string, resp Response) error {
	if resp.Status >= 500 {
		return nil
	}
	return i.store.Set(ctx, key, redisadapter.IdempResponse{
		Status:      resp.Status,
		ContentType: resp.ContentType,
		Result:      resp.Result,
	}, i.ttl)
}
