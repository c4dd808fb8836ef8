package domain_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpportunity(t *testing.T, by domain.InitiatedBy, open bool) domain.Opportunity {
	t.Helper()
	d, err := domain.ParseDate("2025-08-15")
	require.NoError(t, err)
	o, err := domain.NewOpportunity(domain.NewOpportunityParams{
		ArtistID:      uuid.New(),
		VenueID:       uuid.New(),
		ProposedDate:  d,
		InitiatedBy:   by,
		InitiatedByID: uuid.New(),
		OpenBidding:   open,
	}, time.Now())
	require.NoError(t, err)
	return o
}

func TestNewOpportunity_InitialStatus(t *testing.T) {
	direct := newOpportunity(t, domain.InitiatedByArtist, false)
	assert.Equal(t, domain.StatusPending, direct.Status)
	assert.Equal(t, domain.SourceBookingOpportunity, direct.SourceType)
	assert.Equal(t, direct.ID, direct.SourceID)
	assert.Equal(t, domain.HoldStateNone, direct.HoldState)
	assert.Equal(t, "Show on 2025-08-15", direct.Title)

	open := newOpportunity(t, domain.InitiatedByVenue, true)
	assert.Equal(t, domain.StatusOpen, open.Status)
}

func TestNewOpportunity_Validation(t *testing.T) {
	d, _ := domain.ParseDate("2025-08-15")
	neg := decimal.NewFromInt(-1)
	over := decimal.NewFromInt(150)

	cases := map[string]domain.NewOpportunityParams{
		"missing venue":         {ArtistID: uuid.New(), ProposedDate: d, InitiatedBy: domain.InitiatedByArtist},
		"missing date":          {ArtistID: uuid.New(), VenueID: uuid.New(), InitiatedBy: domain.InitiatedByArtist},
		"bad initiator":         {ArtistID: uuid.New(), VenueID: uuid.New(), ProposedDate: d, InitiatedBy: "AGENT"},
		"artist open bidding":   {ArtistID: uuid.New(), VenueID: uuid.New(), ProposedDate: d, InitiatedBy: domain.InitiatedByArtist, OpenBidding: true},
		"negative guarantee":    {ArtistID: uuid.New(), VenueID: uuid.New(), ProposedDate: d, InitiatedBy: domain.InitiatedByArtist, FinancialOffer: domain.FinancialOffer{Guarantee: &neg}},
		"door deal above 100 %": {ArtistID: uuid.New(), VenueID: uuid.New(), ProposedDate: d, InitiatedBy: domain.InitiatedByArtist, FinancialOffer: domain.FinancialOffer{DoorDealPercent: &over}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := domain.NewOpportunity(p, time.Now())
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestTransition_Table(t *testing.T) {
	allowed := map[domain.OpportunityStatus][]domain.OpportunityStatus{
		domain.StatusOpen:      {domain.StatusPending, domain.StatusDeclined, domain.StatusCancelled, domain.StatusExpired},
		domain.StatusPending:   {domain.StatusConfirmed, domain.StatusDeclined, domain.StatusCancelled, domain.StatusExpired},
		domain.StatusConfirmed: {domain.StatusCancelled},
	}
	for _, from := range domain.AllStatuses {
		for _, to := range domain.AllStatuses {
			want := false
			for _, v := range allowed[from] {
				if v == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTransition_RecordsReasonAndTimestamp(t *testing.T) {
	o := newOpportunity(t, domain.InitiatedByVenue, false)
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, o.Transition(domain.StatusDeclined, "  routing doesn't work ", now))

	assert.Equal(t, domain.StatusDeclined, o.Status)
	assert.Equal(t, "routing doesn't work", o.DeclinedReason)
	require.NotNil(t, o.DeclinedAt)
	assert.Equal(t, now, *o.DeclinedAt)
	assert.Equal(t, now, o.UpdatedAt)

	err := o.Transition(domain.StatusConfirmed, "", now)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestTransition_CancelConfirmed(t *testing.T) {
	o := newOpportunity(t, domain.InitiatedByArtist, false)
	now := time.Now()
	require.NoError(t, o.Transition(domain.StatusConfirmed, "", now))
	require.NotNil(t, o.AcceptedAt)
	require.NoError(t, o.Transition(domain.StatusCancelled, "van broke down", now))
	assert.Equal(t, "van broke down", o.CancellationReason)
	assert.True(t, errors.Is(o.Transition(domain.StatusPending, "", now), domain.ErrInvalidTransition))
}

func TestAuthorizeTransition(t *testing.T) {
	o := newOpportunity(t, domain.InitiatedByVenue, false)
	artist := domain.Actor{UserID: uuid.New(), ArtistIDs: []uuid.UUID{o.ArtistID}}
	venue := domain.Actor{UserID: uuid.New(), VenueIDs: []uuid.UUID{o.VenueID}}
	stranger := domain.Actor{UserID: uuid.New()}

	assert.NoError(t, o.AuthorizeTransition(artist, domain.StatusConfirmed))
	assert.NoError(t, o.AuthorizeTransition(artist, domain.StatusDeclined))
	assert.True(t, errors.Is(o.AuthorizeTransition(venue, domain.StatusConfirmed), domain.ErrForbidden))
	assert.NoError(t, o.AuthorizeTransition(venue, domain.StatusCancelled))
	assert.True(t, errors.Is(o.AuthorizeTransition(stranger, domain.StatusCancelled), domain.ErrForbidden))
	assert.True(t, errors.Is(o.AuthorizeTransition(artist, domain.StatusExpired), domain.ErrForbidden))

	assert.NoError(t, o.AuthorizeDelete(venue))
	assert.True(t, errors.Is(o.AuthorizeDelete(artist), domain.ErrForbidden))
}
