package domain

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OpportunityStatus string

const (
	StatusOpen      OpportunityStatus = "OPEN"
	StatusPending   OpportunityStatus = "PENDING"
	StatusConfirmed OpportunityStatus = "CONFIRMED"
	StatusDeclined  OpportunityStatus = "DECLINED"
	StatusCancelled OpportunityStatus = "CANCELLED"
	StatusExpired   OpportunityStatus = "EXPIRED"
)

var AllStatuses = []OpportunityStatus{
	StatusOpen, StatusPending, StatusConfirmed, StatusDeclined, StatusCancelled, StatusExpired,
}

var transitions = map[OpportunityStatus][]OpportunityStatus{
	StatusOpen:      {StatusPending, StatusDeclined, StatusCancelled, StatusExpired},
	StatusPending:   {StatusConfirmed, StatusDeclined, StatusCancelled, StatusExpired},
	StatusConfirmed: {StatusCancelled},
}

func ParseStatus(s string) (OpportunityStatus, error) {
	st := OpportunityStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range AllStatuses {
		if v == st {
			return st, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidInput, "unknown status %q", s)
}

func (s OpportunityStatus) CanTransitionTo(to OpportunityStatus) bool {
	for _, v := range transitions[s] {
		if v == to {
			return true
		}
	}
	return false
}

// Settled reports whether the opportunity has left active negotiation.
// Settled opportunities are hidden from the negotiation views.
func (s OpportunityStatus) Settled() bool {
	switch s {
	case StatusConfirmed, StatusDeclined, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

type InitiatedBy string

const (
	InitiatedByArtist InitiatedBy = "ARTIST"
	InitiatedByVenue  InitiatedBy = "VENUE"
)

func (i InitiatedBy) Other() InitiatedBy {
	if i == InitiatedByArtist {
		return InitiatedByVenue
	}
	return InitiatedByArtist
}

type SourceType string

const (
	SourceShowRequest        SourceType = "SHOW_REQUEST"
	SourceVenueOffer         SourceType = "VENUE_OFFER"
	SourceShowLineup         SourceType = "SHOW_LINEUP"
	SourceBookingOpportunity SourceType = "BOOKING_OPPORTUNITY"
	// SourceVenueBid only appears on opportunities adapted from legacy bids;
	// it is never stored.
	SourceVenueBid SourceType = "VENUE_BID"
)

type HoldState string

const (
	HoldStateNone     HoldState = "NONE"
	HoldStateFrozen   HoldState = "FROZEN"
	HoldStateUnfrozen HoldState = "UNFROZEN"
)

type FinancialOffer struct {
	Guarantee         *decimal.Decimal `json:"guarantee,omitempty"`
	DoorDealPercent   *decimal.Decimal `json:"doorDealPercent,omitempty"`
	TicketPrice       *decimal.Decimal `json:"ticketPrice,omitempty"`
	MerchSplitPercent *decimal.Decimal `json:"merchSplitPercent,omitempty"`
}

type PerformanceDetails struct {
	BillingPosition  string   `json:"billingPosition,omitempty"`
	SetLengthMinutes int      `json:"setLengthMinutes,omitempty"`
	OtherActs        []string `json:"otherActs,omitempty"`
}

type VenueDetails struct {
	Capacity       int    `json:"capacity,omitempty"`
	AgeRestriction string `json:"ageRestriction,omitempty"`
	LoadIn         string `json:"loadIn,omitempty"`
	Soundcheck     string `json:"soundcheck,omitempty"`
	DoorsOpen      string `json:"doorsOpen,omitempty"`
	ShowTime       string `json:"showTime,omitempty"`
	Curfew         string `json:"curfew,omitempty"`
}

type AdditionalValue struct {
	Promotion       string `json:"promotion,omitempty"`
	Lodging         string `json:"lodging,omitempty"`
	AdditionalTerms string `json:"additionalTerms,omitempty"`
}

type HoldSummary struct {
	ID            uuid.UUID  `json:"id"`
	Status        HoldStatus `json:"status"`
	RequestedByID uuid.UUID  `json:"requestedById"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// Opportunity is a proposed show between one artist and one venue. It is the
// canonical shape that show requests, venue offers and show lineups are
// normalised into.
type Opportunity struct {
	ID            uuid.UUID         `json:"id"`
	ArtistID      uuid.UUID         `json:"artistId"`
	VenueID       uuid.UUID         `json:"venueId"`
	Title         string            `json:"title"`
	ProposedDate  Date              `json:"proposedDate"`
	InitiatedBy   InitiatedBy       `json:"initiatedBy"`
	InitiatedByID uuid.UUID         `json:"initiatedById"`
	SourceType    SourceType        `json:"sourceType"`
	SourceID      uuid.UUID         `json:"sourceId"`
	Status        OpportunityStatus `json:"status"`
	Message       string            `json:"message,omitempty"`

	FinancialOffer     FinancialOffer     `json:"financialOffer"`
	PerformanceDetails PerformanceDetails `json:"performanceDetails"`
	VenueDetails       VenueDetails       `json:"venueDetails"`
	AdditionalValue    AdditionalValue    `json:"additionalValue"`

	HoldState   HoldState     `json:"holdState"`
	ActiveHolds []HoldSummary `json:"activeHolds"`

	AcceptedAt         *time.Time `json:"acceptedAt,omitempty"`
	DeclinedAt         *time.Time `json:"declinedAt,omitempty"`
	DeclinedReason     string     `json:"declinedReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	DeletedAt          *time.Time `json:"-"`
}

type NewOpportunityParams struct {
	ArtistID           uuid.UUID
	VenueID            uuid.UUID
	Title              string
	ProposedDate       Date
	InitiatedBy        InitiatedBy
	InitiatedByID      uuid.UUID
	SourceType         SourceType
	SourceID           uuid.UUID
	OpenBidding        bool
	Message            string
	FinancialOffer     FinancialOffer
	PerformanceDetails PerformanceDetails
	VenueDetails       VenueDetails
	AdditionalValue    AdditionalValue
}

// NewOpportunity validates the proposal and returns it in its initial state:
// OPEN for venue-initiated open bidding, PENDING for a direct offer waiting on
// the other party.
func NewOpportunity(p NewOpportunityParams, now time.Time) (Opportunity, error) {
	if p.ArtistID == uuid.Nil || p.VenueID == uuid.Nil {
		return Opportunity{}, errors.Wrap(ErrInvalidInput, "artistId and venueId are required")
	}
	if p.ProposedDate.IsZero() {
		return Opportunity{}, errors.Wrap(ErrInvalidInput, "proposedDate is required")
	}
	if p.InitiatedBy != InitiatedByArtist && p.InitiatedBy != InitiatedByVenue {
		return Opportunity{}, errors.Wrapf(ErrInvalidInput, "initiatedBy must be ARTIST or VENUE, got %q", p.InitiatedBy)
	}
	if p.OpenBidding && p.InitiatedBy != InitiatedByVenue {
		return Opportunity{}, errors.Wrap(ErrInvalidInput, "only venues open a date for bidding")
	}
	if err := p.FinancialOffer.validate(); err != nil {
		return Opportunity{}, err
	}

	id := uuid.New()
	source, sourceID := p.SourceType, p.SourceID
	if source == "" {
		source, sourceID = SourceBookingOpportunity, id
	}
	status := StatusPending
	if p.OpenBidding {
		status = StatusOpen
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Show on " + p.ProposedDate.String()
	}

	return Opportunity{
		ID:                 id,
		ArtistID:           p.ArtistID,
		VenueID:            p.VenueID,
		Title:              title,
		ProposedDate:       p.ProposedDate,
		InitiatedBy:        p.InitiatedBy,
		InitiatedByID:      p.InitiatedByID,
		SourceType:         source,
		SourceID:           sourceID,
		Status:             status,
		Message:            p.Message,
		FinancialOffer:     p.FinancialOffer,
		PerformanceDetails: p.PerformanceDetails,
		VenueDetails:       p.VenueDetails,
		AdditionalValue:    p.AdditionalValue,
		HoldState:          HoldStateNone,
		ActiveHolds:        []HoldSummary{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (f FinancialOffer) validate() error {
	for name, v := range map[string]*decimal.Decimal{
		"guarantee":   f.Guarantee,
		"ticketPrice": f.TicketPrice,
	} {
		if v != nil && v.IsNegative() {
			return errors.Wrapf(ErrInvalidInput, "%s must not be negative", name)
		}
	}
	for name, v := range map[string]*decimal.Decimal{
		"doorDealPercent":   f.DoorDealPercent,
		"merchSplitPercent": f.MerchSplitPercent,
	} {
		if v != nil && (v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100))) {
			return errors.Wrapf(ErrInvalidInput, "%s must be between 0 and 100", name)
		}
	}
	return nil
}

func (o Opportunity) Parties() Parties {
	return Parties{ArtistID: o.ArtistID, VenueID: o.VenueID}
}

// Transition moves the opportunity to the target status. Decline and cancel
// reasons are kept together with their timestamps for audit.
func (o *Opportunity) Transition(to OpportunityStatus, reason string, now time.Time) error {
	if !o.Status.CanTransitionTo(to) {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, to)
	}
	reason = strings.TrimSpace(reason)
	switch to {
	case StatusConfirmed:
		o.AcceptedAt = &now
	case StatusDeclined:
		o.DeclinedAt = &now
		o.DeclinedReason = reason
	case StatusCancelled:
		o.CancelledAt = &now
		o.CancellationReason = reason
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}

// AuthorizeTransition checks that the actor may move the opportunity to the
// target status. Accepting and declining belong to the responding side;
// either side may cancel or advance an open date to pending.
func (o Opportunity) AuthorizeTransition(a Actor, to OpportunityStatus) error {
	side, ok := o.Parties().SideOf(a)
	if !ok {
		return errors.Wrap(ErrForbidden, "not a party to this opportunity")
	}
	switch to {
	case StatusConfirmed, StatusDeclined:
		if side == o.InitiatedBy && !(a.IsArtist(o.ArtistID) && a.IsVenue(o.VenueID)) {
			return errors.Wrapf(ErrForbidden, "only the %s side can respond", o.InitiatedBy.Other())
		}
	case StatusExpired:
		return errors.Wrap(ErrForbidden, "expiry is not a user action")
	}
	return nil
}

// AuthorizeDelete allows removal only by the side that created the proposal.
func (o Opportunity) AuthorizeDelete(a Actor) error {
	if !a.Manages(EntityType(o.InitiatedBy), o.initiatorEntity()) {
		return errors.Wrap(ErrForbidden, "only the initiating party can delete")
	}
	return nil
}

func (o Opportunity) initiatorEntity() uuid.UUID {
	if o.InitiatedBy == InitiatedByArtist {
		return o.ArtistID
	}
	return o.VenueID
}

func (o Opportunity) Guarantee() decimal.Decimal {
	if o.FinancialOffer.Guarantee == nil {
		return decimal.Zero
	}
	return *o.FinancialOffer.Guarantee
}
