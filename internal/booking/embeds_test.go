package booking

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedService_Lifecycle(t *testing.T) {
	store := newMemStore()
	s := NewEmbedService(store)
	ctx := context.Background()
	p := newParties()

	first, err := s.Create(ctx, p.artist, domain.EntityArtist, p.artistID, EmbedInput{URL: "https://youtu.be/abc"})
	require.NoError(t, err)
	second, err := s.Create(ctx, p.artist, domain.EntityArtist, p.artistID, EmbedInput{URL: "https://open.spotify.com/album/1", Title: "LP"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	pos := 0
	updated, err := s.Update(ctx, p.artist, domain.EntityArtist, p.artistID, second.ID, EmbedInput{Title: "Debut LP", Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, "Debut LP", updated.Title)
	assert.Equal(t, domain.ProviderSpotify, updated.Provider)
	assert.Equal(t, 0, updated.Position)

	require.NoError(t, s.Delete(ctx, p.artist, domain.EntityArtist, p.artistID, first.ID))
	list, err := s.List(ctx, domain.EntityArtist, p.artistID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEmbedService_Authorization(t *testing.T) {
	store := newMemStore()
	s := NewEmbedService(store)
	ctx := context.Background()
	p := newParties()

	_, err := s.Create(ctx, p.venue, domain.EntityArtist, p.artistID, EmbedInput{URL: "https://youtu.be/abc"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	e, err := s.Create(ctx, p.venue, domain.EntityVenue, p.venueID, EmbedInput{URL: "https://vimeo.com/1"})
	require.NoError(t, err)

	// an embed is only reachable through its owner
	err = s.Delete(ctx, p.artist, domain.EntityArtist, p.artistID, e.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = s.Create(ctx, p.venue, domain.EntityVenue, p.venueID, EmbedInput{URL: "http://vimeo.com/1"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = s.List(ctx, "LABEL", uuid.New())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
