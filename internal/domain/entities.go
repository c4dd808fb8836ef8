package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityArtist EntityType = "ARTIST"
	EntityVenue  EntityType = "VENUE"
)

func (t EntityType) Valid() bool {
	return t == EntityArtist || t == EntityVenue
}

// Actor is the authenticated caller together with the artists and venues
// they administer.
type Actor struct {
	UserID    uuid.UUID
	ArtistIDs []uuid.UUID
	VenueIDs  []uuid.UUID
}

func (a Actor) IsArtist(id uuid.UUID) bool {
	return containsID(a.ArtistIDs, id)
}

func (a Actor) IsVenue(id uuid.UUID) bool {
	return containsID(a.VenueIDs, id)
}

// Manages reports whether the actor administers the given artist or venue.
func (a Actor) Manages(t EntityType, id uuid.UUID) bool {
	switch t {
	case EntityArtist:
		return a.IsArtist(id)
	case EntityVenue:
		return a.IsVenue(id)
	}
	return false
}

// Parties identifies the two sides of a booking document.
type Parties struct {
	ArtistID uuid.UUID
	VenueID  uuid.UUID
}

// SideOf returns which side of the document the actor represents. An actor
// managing both sides is reported as the artist.
func (p Parties) SideOf(a Actor) (InitiatedBy, bool) {
	if a.IsArtist(p.ArtistID) {
		return InitiatedByArtist, true
	}
	if p.VenueID != uuid.Nil && a.IsVenue(p.VenueID) {
		return InitiatedByVenue, true
	}
	return "", false
}

func (p Parties) Involves(a Actor) bool {
	_, ok := p.SideOf(a)
	return ok
}

type Membership struct {
	UserID     uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	CreatedAt  time.Time
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
