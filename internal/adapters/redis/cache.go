package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robertarktes/show-booking/internal/domain"
)

// favoritesGenTTL bounds how long an idle user's generation counter lives.
const favoritesGenTTL = 24 * time.Hour

// releaseLock deletes the lock only while it still belongs to the caller.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// setIfGeneration writes the favorites list only if no invalidation has
// bumped the generation since the caller read it.
var setIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func holdLockKey(documentID uuid.UUID) string {
	return "hold:" + documentID.String()
}

func favoritesKey(userID uuid.UUID) string {
	return "favorites:" + userID.String()
}

func favoritesGenKey(userID uuid.UUID) string {
	return "favorites:gen:" + userID.String()
}

// AcquireHoldLock serialises hold creation per document. It reports false
// when another request already holds the lock.
func (c *Cache) AcquireHoldLock(ctx context.Context, documentID uuid.UUID, owner string, ttl time.Duration) (bool, error) {
	res := c.client.SetNX(ctx, holdLockKey(documentID), owner, ttl)
	return res.Val(), res.Err()
}

// ReleaseHoldLock drops the lock if owner still holds it. A lock that
// expired and was taken by another request is left alone.
func (c *Cache) ReleaseHoldLock(ctx context.Context, documentID uuid.UUID, owner string) error {
	return releaseLock.Run(ctx, c.client, []string{holdLockKey(documentID)}, owner).Err()
}

func (c *Cache) GetFavorites(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, bool, error) {
	val, err := c.client.Get(ctx, favoritesKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var favs []domain.Favorite
	if err := json.Unmarshal(val, &favs); err != nil {
		return nil, false, errors.Wrap(err, "decode cached favorites")
	}
	return favs, true, nil
}

// FavoritesGeneration returns the user's invalidation counter. Read it
// before loading from the database and pass it to SetFavorites.
func (c *Cache) FavoritesGeneration(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, favoritesGenKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// SetFavorites caches favs unless the list was invalidated after gen was
// read. It reports whether the write happened.
func (c *Cache) SetFavorites(ctx context.Context, userID uuid.UUID, favs []domain.Favorite, ttl time.Duration, gen int64) (bool, error) {
	if favs == nil {
		favs = []domain.Favorite{}
	}
	data, err := json.Marshal(favs)
	if err != nil {
		return false, err
	}
	keys := []string{favoritesKey(userID), favoritesGenKey(userID)}
	n, err := setIfGeneration.Run(ctx, c.client, keys, gen, data, ttl.Milliseconds()).Int()
	if err != nil {
		return false, errors.Wrap(err, "cache favorites")
	}
	return n == 1, nil
}

// InvalidateFavorites drops the cached list and bumps the generation so an
// in-flight load cannot write its stale result back.
func (c *Cache) InvalidateFavorites(ctx context.Context, userID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, favoritesKey(userID))
		p.Incr(ctx, favoritesGenKey(userID))
		p.Expire(ctx, favoritesGenKey(userID), favoritesGenTTL)
		return nil
	})
	return err
}
