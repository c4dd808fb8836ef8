package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// Idempotency keeps replayable responses as hashes under idemp:<key>.
type Idempotency struct {
	client *redis.Client
}

func NewIdempotency(client *redis.Client) *Idempotency {
	return &Idempotency{client: client}
}

type IdempResponse struct {
	Status      int
	ContentType string
	Result      []byte
}

func idempKey(key string) string {
	return "idemp:" + key
}

func (i *Idempotency) Get(ctx context.Context, key string) (*IdempResponse, error) {
	fields, err := i.client.HGetAll(ctx, idempKey(key)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	status, err := strconv.Atoi(fields["status"])
	if err != nil {
		return nil, errors.Wrapf(err, "stored status for %s", key)
	}
	return &IdempResponse{
		Status:      status,
		ContentType: fields["content_type"],
		Result:      []byte(fields["body"]),
	}, nil
}

// Set writes the response and its TTL in one MULTI so a reader never sees a
// hash without an expiry.
func (i *Idempotency) Set(ctx context.Context, key string, resp IdempResponse, ttl time.Duration) error {
	k := idempKey(key)
	_, err := i.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, "status", resp.Status, "content_type", resp.ContentType, "body", resp.Result)
		p.Expire(ctx, k, ttl)
		return nil
	})
	return err
}
