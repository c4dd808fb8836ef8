package booking

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/observability"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
)

const DefaultFavoritesTTL = 30 * time.Second

// FavoriteService reads favorites through a per-user cache. Concurrent
// misses for the same user share one database load.
type FavoriteService struct {
	repo   FavoriteRepository
	cache  FavoriteCache
	ttl    time.Duration
	group  singleflight.Group
	logger observability.Logger
	now    func() time.Time
}

func NewFavoriteService(repo FavoriteRepository, cache FavoriteCache, ttl time.Duration, logger observability.Logger) *FavoriteService {
	if ttl <= 0 {
		ttl = DefaultFavoritesTTL
	}
	return &FavoriteService{repo: repo, cache: cache, ttl: ttl, logger: logger.WithField("component", "favorites"), now: time.Now}
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	favs, ok, err := s.cache.GetFavorites(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Warn("favorites cache read")
	}
	if ok {
		observability.FavoritesCacheLookups.WithLabelValues("hit").Inc()
		return favs, nil
	}
	observability.FavoritesCacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := s.group.Do(userID.String(), func() (interface{}, error) {
		gen, genErr := s.cache.FavoritesGeneration(ctx, userID)
		favs, err := s.repo.ListFavorites(ctx, userID)
		if err != nil {
			return nil, errors.Wrap(err, "list favorites")
		}
		if genErr != nil {
			s.logger.WithError(genErr).Warn("favorites cache generation")
			return favs, nil
		}
		if ok, err := s.cache.SetFavorites(ctx, userID, favs, s.ttl, gen); err != nil {
			s.logger.WithError(err).Warn("favorites cache write")
		} else if !ok {
			s.logger.WithField("user_id", userID).Debug("favorites changed during load, not cached")
		}
		return favs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Favorite), nil
}

func (s *FavoriteService) ListByType(ctx context.Context, userID uuid.UUID, t domain.EntityType) ([]domain.Favorite, error) {
	favs, err := s.List(ctx, userID)
	if err != nil || t == "" {
		return favs, err
	}
	return lo.Filter(favs, func(f domain.Favorite, _ int) bool { return f.EntityType == t }), nil
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) (bool, error) {
	favs, err := s.List(ctx, userID)
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(favs, func(f domain.Favorite) bool { return f.Key() == key }), nil
}

func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) (domain.Favorite, error) {
	if !key.EntityType.Valid() || key.EntityID == uuid.Nil {
		return domain.Favorite{}, errors.Wrap(domain.ErrInvalidInput, "entityType and entityId are required")
	}
	f := domain.Favorite{UserID: userID, EntityType: key.EntityType, EntityID: key.EntityID, CreatedAt: s.now()}
	if err := s.repo.AddFavorite(ctx, f); err != nil {
		return domain.Favorite{}, errors.Wrap(err, "add favorite")
	}
	s.invalidate(ctx, userID)
	return f, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) error {
	if !key.EntityType.Valid() || key.EntityID == uuid.Nil {
		return errors.Wrap(domain.ErrInvalidInput, "entityType and entityId are required")
	}
	if err := s.repo.RemoveFavorite(ctx, userID, key); err != nil {
		return errors.Wrap(err, "remove favorite")
	}
	s.invalidate(ctx, userID)
	return nil
}

// Toggle flips the favorite and returns the new state.
func (s *FavoriteService) Toggle(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) (bool, error) {
	on, err := s.IsFavorited(ctx, userID, key)
	if err != nil {
		return false, err
	}
	if on {
		return false, s.Remove(ctx, userID, key)
	}
	if _, err := s.Add(ctx, userID, key); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoriteService) invalidate(ctx context.Context, userID uuid.UUID) {
	s.group.Forget(userID.String())
	if err := s.cache.InvalidateFavorites(ctx, userID); err != nil {
		s.logger.WithError(err).Warn("favorites cache invalidate")
	}
}
