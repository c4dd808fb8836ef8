// Package itinerary holds the client-side state of the booking calendar:
// which rows are expanded, which modal is open, what is loading, and the
// optimistic view of mutations still in flight. Every change goes through
// Reduce.
package itinerary

import (
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/timeline"
)

type Section string

const (
	SectionShows    Section = "shows"
	SectionRequests Section = "requests"
	SectionBids     Section = "bids"
)

type idSet map[uuid.UUID]struct{}

func (s idSet) has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) with(id uuid.UUID) idSet {
	out := make(idSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[id] = struct{}{}
	return out
}

func (s idSet) without(id uuid.UUID) idSet {
	out := make(idSet, len(s))
	for k := range s {
		if k != id {
			out[k] = struct{}{}
		}
	}
	return out
}

// Context is the artist or venue whose itinerary is being viewed.
type Context struct {
	Kind domain.EntityType
	ID   uuid.UUID
}

type DocumentModal struct {
	ID   uuid.UUID
	Type timeline.EntryType
}

type UniversalOfferModal struct {
	ArtistID *uuid.UUID
	VenueID  *uuid.UUID
	Date     domain.Date
}

type BidFormModal struct {
	ShowRequestID uuid.UUID
}

type Modals struct {
	ShowDetail     *uuid.UUID
	Document       *DocumentModal
	UniversalOffer *UniversalOfferModal
	BidForm        *BidFormModal
}

type State struct {
	Context  Context
	expanded map[Section]idSet
	Modals   Modals

	deleting   idSet
	bidActions idSet

	deleted   idSet
	overrides map[uuid.UUID]domain.OpportunityStatus
}

func NewState(c Context) State {
	return State{Context: c}
}

func (s State) IsExpanded(sec Section, id uuid.UUID) bool {
	return s.expanded[sec].has(id)
}

func (s State) IsDeleting(id uuid.UUID) bool  { return s.deleting.has(id) }
func (s State) IsBidAction(id uuid.UUID) bool { return s.bidActions.has(id) }

// IsDeleted reports whether id was optimistically removed.
func (s State) IsDeleted(id uuid.UUID) bool { return s.deleted.has(id) }

func (s State) StatusOverride(id uuid.UUID) (domain.OpportunityStatus, bool) {
	st, ok := s.overrides[id]
	return st, ok
}

// HasOptimisticState reports whether any optimistic delete or status
// override is outstanding.
func (s State) HasOptimisticState() bool {
	return len(s.deleted) > 0 || len(s.overrides) > 0
}

// Visible applies the optimistic view to fetched entries: deleted ids are
// hidden and overridden statuses replace the fetched ones.
func Visible(entries []timeline.Entry, s State) []timeline.Entry {
	out := make([]timeline.Entry, 0, len(entries))
	for _, e := range entries {
		if s.IsDeleted(e.ID()) {
			continue
		}
		if st, ok := s.StatusOverride(e.ID()); ok {
			e.Status = st
			e.Data.Status = st
		}
		out = append(out, e)
	}
	return out
}
