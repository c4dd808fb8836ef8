package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_ToggleTwiceRestoresState(t *testing.T) {
	store := newMemStore()
	s := NewFavoriteService(store, store, time.Minute, observability.NewNopLogger())
	ctx := context.Background()
	user := uuid.New()
	key := domain.FavoriteKey{EntityType: domain.EntityVenue, EntityID: uuid.New()}

	on, err := s.IsFavorited(ctx, user, key)
	require.NoError(t, err)
	require.False(t, on)

	on, err = s.Toggle(ctx, user, key)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = s.IsFavorited(ctx, user, key)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Toggle(ctx, user, key)
	require.NoError(t, err)
	assert.False(t, on)
	on, err = s.IsFavorited(ctx, user, key)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, store.favorites[user])
}

func TestFavoriteService_ServesFromCache(t *testing.T) {
	store := newMemStore()
	s := NewFavoriteService(store, store, time.Minute, observability.NewNopLogger())
	ctx := context.Background()
	user := uuid.New()
	_, err := s.Add(ctx, user, domain.FavoriteKey{EntityType: domain.EntityArtist, EntityID: uuid.New()})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		favs, err := s.List(ctx, user)
		require.NoError(t, err)
		assert.Len(t, favs, 1)
	}
	assert.Equal(t, 1, store.favoriteLoads)

	venues, err := s.ListByType(ctx, user, domain.EntityVenue)
	require.NoError(t, err)
	assert.Empty(t, venues)
}

func TestFavoriteService_ConcurrentMissesLoadOnce(t *testing.T) {
	store := newMemStore()
	s := NewFavoriteService(store, store, time.Minute, observability.NewNopLogger())
	user := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.List(context.Background(), user)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// goroutines that start after the first load finishes hit the cache
	assert.LessOrEqual(t, store.favoriteLoads, store.favCacheSets)
	assert.GreaterOrEqual(t, store.favoriteLoads, 1)
}

func TestFavoriteService_WriteDuringLoadIsNotCached(t *testing.T) {
	store := newMemStore()
	s := NewFavoriteService(store, store, time.Minute, observability.NewNopLogger())
	ctx := context.Background()
	user := uuid.New()
	key := domain.FavoriteKey{EntityType: domain.EntityArtist, EntityID: uuid.New()}

	var once sync.Once
	store.duringFavoritesLoad = func() {
		once.Do(func() {
			_, err := s.Add(ctx, user, key)
			require.NoError(t, err)
		})
	}

	favs, err := s.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, favs, "the racing load saw the old rows")
	_, cached := store.favCache[user]
	assert.False(t, cached)

	on, err := s.IsFavorited(ctx, user, key)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestFavoriteService_RejectsBadKey(t *testing.T) {
	store := newMemStore()
	s := NewFavoriteService(store, store, 0, observability.NewNopLogger())
	_, err := s.Add(context.Background(), uuid.New(), domain.FavoriteKey{EntityType: "LABEL", EntityID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
