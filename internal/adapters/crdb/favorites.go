package crdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

func (r *Repository) AddFavorite(ctx context.Context, f domain.Favorite) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (user_id, entity_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, entity_type, entity_id) DO NOTHING
	`, f.UserID, f.EntityType, f.EntityID, f.CreatedAt)
	return err
}

func (r *Repository) RemoveFavorite(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
	`, userID, key.EntityType, key.EntityID)
	return err
}

func (r *Repository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, entity_type, entity_id, created_at
		FROM favorites WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favs := []domain.Favorite{}
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.UserID, &f.EntityType, &f.EntityID, &f.CreatedAt); err != nil {
			return nil, err
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

func (r *Repository) Memberships(ctx context.Context, userID uuid.UUID) ([]domain.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, entity_type, entity_id, created_at FROM memberships WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.UserID, &m.EntityType, &m.EntityID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMembership grants userID administration of an artist or venue.
func (r *Repository) AddMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO memberships (user_id, entity_type, entity_id) VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, m.UserID, m.EntityType, m.EntityID)
	return err
}
