package booking

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

// Directory resolves an authenticated user into the artists and venues they
// administer.
type Directory struct {
	repo MembershipRepository
}

func NewDirectory(repo MembershipRepository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) Actor(ctx context.Context, userID uuid.UUID) (domain.Actor, error) {
	if userID == uuid.Nil {
		return domain.Actor{}, domain.ErrUnauthorized
	}
	ms, err := d.repo.Memberships(ctx, userID)
	if err != nil {
		return domain.Actor{}, errors.Wrap(err, "load memberships")
	}
	a := domain.Actor{UserID: userID}
	for _, m := range ms {
		switch m.EntityType {
		case domain.EntityArtist:
			a.ArtistIDs = append(a.ArtistIDs, m.EntityID)
		case domain.EntityVenue:
			a.VenueIDs = append(a.VenueIDs, m.EntityID)
		}
	}
	return a, nil
}
