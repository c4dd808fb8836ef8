package domain

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	UserID     uuid.UUID  `json:"userId"`
	EntityType EntityType `json:"entityType"`
	EntityID   uuid.UUID  `json:"entityId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type FavoriteKey struct {
	EntityType EntityType
	EntityID   uuid.UUID
}

func (f Favorite) Key() FavoriteKey {
	return FavoriteKey{EntityType: f.EntityType, EntityID: f.EntityID}
}
