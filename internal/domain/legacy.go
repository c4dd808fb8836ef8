package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The types below are the records that predate booking opportunities. They
// are still served as-is and adapted into opportunities for the timeline.

type LineupSlot struct {
	ArtistID        uuid.UUID `json:"artistId"`
	BillingPosition string    `json:"billingPosition,omitempty"`
	SetLength       int       `json:"setLength,omitempty"`
	Status          string    `json:"status,omitempty"`
}

type Show struct {
	ID        uuid.UUID        `json:"id"`
	ArtistID  uuid.UUID        `json:"artistId"`
	VenueID   uuid.UUID        `json:"venueId"`
	Title     string           `json:"title"`
	Date      Date             `json:"date"`
	Status    string           `json:"status"`
	Guarantee *decimal.Decimal `json:"guarantee,omitempty"`
	Capacity  int              `json:"capacity,omitempty"`
	AgeLimit  string           `json:"ageRestriction,omitempty"`
	Lineup    []LineupSlot     `json:"lineup,omitempty"`
}

type ShowRequest struct {
	ID            uuid.UUID        `json:"id"`
	ArtistID      uuid.UUID        `json:"artistId"`
	VenueID       *uuid.UUID       `json:"venueId,omitempty"`
	Title         string           `json:"title"`
	RequestedDate Date             `json:"requestedDate"`
	Status        string           `json:"status"`
	InitiatedBy   InitiatedBy      `json:"initiatedBy"`
	CreatedByID   uuid.UUID        `json:"createdById"`
	Guarantee     *decimal.Decimal `json:"amount,omitempty"`
	Description   string           `json:"description,omitempty"`
}

// Parties of a show request. Open requests have no venue yet.
func (r ShowRequest) Parties() Parties {
	p := Parties{ArtistID: r.ArtistID}
	if r.VenueID != nil {
		p.VenueID = *r.VenueID
	}
	return p
}

type VenueBid struct {
	ID             uuid.UUID        `json:"id"`
	ShowRequestID  uuid.UUID        `json:"showRequestId"`
	ArtistID       uuid.UUID        `json:"artistId"`
	VenueID        uuid.UUID        `json:"venueId"`
	BidderID       uuid.UUID        `json:"bidderId"`
	ProposedDate   Date             `json:"proposedDate"`
	Status         string           `json:"status"`
	Guarantee      *decimal.Decimal `json:"guarantee,omitempty"`
	DoorDeal       *decimal.Decimal `json:"doorDeal,omitempty"`
	TicketPrice    *decimal.Decimal `json:"ticketPrice,omitempty"`
	Capacity       int              `json:"capacity,omitempty"`
	AgeRestriction string           `json:"ageRestriction,omitempty"`
	Message        string           `json:"message,omitempty"`
}

type VenueOffer struct {
	ID           uuid.UUID        `json:"id"`
	ArtistID     uuid.UUID        `json:"artistId"`
	VenueID      uuid.UUID        `json:"venueId"`
	CreatedByID  uuid.UUID        `json:"createdById"`
	Title        string           `json:"title"`
	ProposedDate Date             `json:"proposedDate"`
	Status       string           `json:"status"`
	Guarantee    *decimal.Decimal `json:"amount,omitempty"`
	DoorDeal     *decimal.Decimal `json:"doorDeal,omitempty"`
	Message      string           `json:"message,omitempty"`
}
