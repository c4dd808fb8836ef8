package domain_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type holdFixture struct {
	doc       domain.Parties
	artist    domain.Actor
	venue     domain.Actor
	stranger  domain.Actor
	requestID uuid.UUID
}

func newHoldFixture() holdFixture {
	doc := domain.Parties{ArtistID: uuid.New(), VenueID: uuid.New()}
	return holdFixture{
		doc:       doc,
		artist:    domain.Actor{UserID: uuid.New(), ArtistIDs: []uuid.UUID{doc.ArtistID}},
		venue:     domain.Actor{UserID: uuid.New(), VenueIDs: []uuid.UUID{doc.VenueID}},
		stranger:  domain.Actor{UserID: uuid.New()},
		requestID: uuid.New(),
	}
}

func (f holdFixture) pendingHold(t *testing.T) domain.HoldRequest {
	t.Helper()
	id := f.requestID
	h, err := domain.NewHoldRequest(domain.NewHoldParams{
		ShowRequestID: &id,
		RequestedByID: f.artist.UserID,
		RequestedBy:   domain.InitiatedByArtist,
		Duration:      48,
		Reason:        "waiting on routing",
	}, time.Now())
	require.NoError(t, err)
	return h
}

func TestNewHoldRequest_Validation(t *testing.T) {
	id := uuid.New()
	_, err := domain.NewHoldRequest(domain.NewHoldParams{ShowID: &id, Duration: 36}, time.Now())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = domain.NewHoldRequest(domain.NewHoldParams{Duration: 24}, time.Now())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = domain.NewHoldRequest(domain.NewHoldParams{ShowID: &id, ShowRequestID: &id, Duration: 24}, time.Now())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	for _, d := range domain.HoldDurations {
		h, err := domain.NewHoldRequest(domain.NewHoldParams{ShowID: &id, Duration: d}, time.Now())
		require.NoError(t, err)
		assert.Equal(t, domain.HoldPending, h.Status)
		assert.Equal(t, id, h.DocumentID())
	}
}

func TestCanCreateHold_RejectsSecondHold(t *testing.T) {
	f := newHoldFixture()
	pending := f.pendingHold(t)

	assert.NoError(t, domain.CanCreateHold(f.artist, f.doc, nil))
	assert.ErrorIs(t, domain.CanCreateHold(f.venue, f.doc, []domain.HoldRequest{pending}), domain.ErrHoldExists)

	active := pending
	require.NoError(t, active.Apply(domain.HoldApprove, f.venue.UserID, time.Now()))
	assert.ErrorIs(t, domain.CanCreateHold(f.artist, f.doc, []domain.HoldRequest{active}), domain.ErrHoldExists)

	declined := f.pendingHold(t)
	require.NoError(t, declined.Apply(domain.HoldDecline, f.venue.UserID, time.Now()))
	assert.NoError(t, domain.CanCreateHold(f.artist, f.doc, []domain.HoldRequest{declined}))
}

func TestCanCreateHold_RequiresMembership(t *testing.T) {
	f := newHoldFixture()
	debugLooking := domain.Actor{UserID: uuid.MustParse("00000000-0000-0000-0000-00000000d3b6")}

	assert.True(t, errors.Is(domain.CanCreateHold(f.stranger, f.doc, nil), domain.ErrForbidden))
	assert.True(t, errors.Is(domain.CanCreateHold(debugLooking, f.doc, nil), domain.ErrForbidden))
}

func TestHoldGates(t *testing.T) {
	f := newHoldFixture()
	h := f.pendingHold(t)

	assert.NoError(t, domain.CanRespondToHold(f.venue, f.doc, h))
	assert.True(t, errors.Is(domain.CanRespondToHold(f.artist, f.doc, h), domain.ErrForbidden))
	assert.True(t, errors.Is(domain.CanRespondToHold(f.stranger, f.doc, h), domain.ErrForbidden))

	bandmate := domain.Actor{UserID: uuid.New(), ArtistIDs: []uuid.UUID{f.doc.ArtistID}}
	assert.True(t, errors.Is(domain.CanRespondToHold(bandmate, f.doc, h), domain.ErrForbidden))
	bothSides := domain.Actor{UserID: uuid.New(), ArtistIDs: []uuid.UUID{f.doc.ArtistID}, VenueIDs: []uuid.UUID{f.doc.VenueID}}
	assert.True(t, errors.Is(domain.CanRespondToHold(bothSides, f.doc, h), domain.ErrForbidden))
	venueStaff := domain.Actor{UserID: uuid.New(), VenueIDs: []uuid.UUID{f.doc.VenueID}}
	assert.NoError(t, domain.CanRespondToHold(venueStaff, f.doc, h))

	assert.NoError(t, domain.CanCancelHold(f.artist, h))
	assert.True(t, errors.Is(domain.CanCancelHold(f.venue, h), domain.ErrForbidden))

	assert.True(t, errors.Is(domain.CanEndHold(f.artist, f.doc, h), domain.ErrInvalidTransition))

	require.NoError(t, h.Apply(domain.HoldApprove, f.venue.UserID, time.Now()))
	assert.True(t, errors.Is(domain.CanRespondToHold(f.venue, f.doc, h), domain.ErrInvalidTransition))
	assert.True(t, errors.Is(domain.CanCancelHold(f.artist, h), domain.ErrInvalidTransition))
	assert.NoError(t, domain.CanEndHold(f.venue, f.doc, h))
	assert.NoError(t, domain.CanEndHold(f.artist, f.doc, h))
	assert.True(t, errors.Is(domain.CanEndHold(f.stranger, f.doc, h), domain.ErrForbidden))
}

func TestHoldLifecycle(t *testing.T) {
	f := newHoldFixture()
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	h := f.pendingHold(t)
	require.NoError(t, h.Apply(domain.HoldApprove, f.venue.UserID, now))
	assert.Equal(t, domain.HoldActive, h.Status)
	require.NotNil(t, h.ExpiresAt)
	assert.Equal(t, now.Add(48*time.Hour), *h.ExpiresAt)
	assert.Equal(t, now, *h.StartsAt)
	assert.Equal(t, f.venue.UserID, *h.RespondedByID)
	assert.Equal(t, 48*time.Hour, h.Remaining(now))

	assert.False(t, h.Expire(now.Add(47*time.Hour)))
	assert.True(t, h.Expire(now.Add(48*time.Hour)))
	assert.Equal(t, domain.HoldExpired, h.Status)
	assert.Zero(t, h.Remaining(now.Add(49*time.Hour)))

	ended := f.pendingHold(t)
	require.NoError(t, ended.Apply(domain.HoldApprove, f.venue.UserID, now))
	require.NoError(t, ended.Apply(domain.HoldEndEarly, f.artist.UserID, now.Add(time.Hour)))
	assert.Equal(t, domain.HoldCancelled, ended.Status)
	assert.False(t, ended.Expire(now.Add(100*time.Hour)))

	cancelled := f.pendingHold(t)
	require.NoError(t, cancelled.Apply(domain.HoldCancel, f.artist.UserID, now))
	assert.True(t, errors.Is(cancelled.Apply(domain.HoldApprove, f.venue.UserID, now), domain.ErrInvalidTransition))
}

func TestUrgencyFor(t *testing.T) {
	assert.Equal(t, domain.UrgencyCritical, domain.UrgencyFor(0))
	assert.Equal(t, domain.UrgencyCritical, domain.UrgencyFor(2*time.Hour))
	assert.Equal(t, domain.UrgencyWarning, domain.UrgencyFor(2*time.Hour+time.Second))
	assert.Equal(t, domain.UrgencyWarning, domain.UrgencyFor(6*time.Hour))
	assert.Equal(t, domain.UrgencyNormal, domain.UrgencyFor(6*time.Hour+time.Second))
}
