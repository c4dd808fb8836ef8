// Package timeline turns booking opportunities into month-bucketed calendar
// views. The pipeline is written once against domain.Opportunity; the legacy
// show, show request, venue bid and venue offer records are adapted into that
// shape at the boundary (see adapters.go).
package timeline

import (
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

type EntryType string

const (
	TypeOpportunity EntryType = "booking-opportunity"
	TypeShow        EntryType = "show"
	TypeShowRequest EntryType = "show-request"
	TypeVenueBid    EntryType = "venue-bid"
	TypeVenueOffer  EntryType = "venue-offer"
)

func typeOf(s domain.SourceType) EntryType {
	switch s {
	case domain.SourceShowLineup:
		return TypeShow
	case domain.SourceShowRequest:
		return TypeShowRequest
	case domain.SourceVenueBid:
		return TypeVenueBid
	case domain.SourceVenueOffer:
		return TypeVenueOffer
	}
	return TypeOpportunity
}

type Entry struct {
	Type   EntryType                `json:"type"`
	Date   domain.Date              `json:"date"`
	Status domain.OpportunityStatus `json:"status"`
	Data   domain.Opportunity       `json:"data"`
}

func (e Entry) ID() uuid.UUID { return e.Data.ID }

func EntryFor(o domain.Opportunity) Entry {
	return Entry{Type: typeOf(o.SourceType), Date: o.ProposedDate, Status: o.Status, Data: o}
}
