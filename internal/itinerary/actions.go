package itinerary

import (
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

// Action is one named state change. The set of actions is closed.
type Action interface {
	action()
}

type ToggleExpanded struct {
	Section Section
	ID      uuid.UUID
}

type OpenShowDetail struct{ ShowID uuid.UUID }
type CloseShowDetail struct{}

type OpenDocument struct{ Document DocumentModal }
type CloseDocument struct{}

type OpenUniversalOffer struct{ Offer UniversalOfferModal }
type CloseUniversalOffer struct{}

type OpenBidForm struct{ ShowRequestID uuid.UUID }
type CloseBidForm struct{}

type SetDeleting struct {
	ID       uuid.UUID
	Deleting bool
}

type SetBidAction struct {
	ID     uuid.UUID
	Active bool
}

type MarkDeleted struct{ ID uuid.UUID }
type UnmarkDeleted struct{ ID uuid.UUID }

type OverrideBidStatus struct {
	ID     uuid.UUID
	Status domain.OpportunityStatus
}

type ClearBidStatus struct{ ID uuid.UUID }

type ResetOptimisticState struct{}

// SetContext switches the viewed artist or venue. Optimistic state never
// carries over to another context.
type SetContext struct{ Context Context }

func (ToggleExpanded) action()       {}
func (OpenShowDetail) action()       {}
func (CloseShowDetail) action()      {}
func (OpenDocument) action()         {}
func (CloseDocument) action()        {}
func (OpenUniversalOffer) action()   {}
func (CloseUniversalOffer) action()  {}
func (OpenBidForm) action()          {}
func (CloseBidForm) action()         {}
func (SetDeleting) action()          {}
func (SetBidAction) action()         {}
func (MarkDeleted) action()          {}
func (UnmarkDeleted) action()        {}
func (OverrideBidStatus) action()    {}
func (ClearBidStatus) action()       {}
func (ResetOptimisticState) action() {}
func (SetContext) action()           {}
