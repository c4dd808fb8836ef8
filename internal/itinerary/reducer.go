package itinerary

import (
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

// Reduce returns the state after applying a. The input state is never
// modified; sets and maps that change are copied.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ToggleExpanded:
		expanded := make(map[Section]idSet, len(s.expanded)+1)
		for k, v := range s.expanded {
			expanded[k] = v
		}
		if cur := s.expanded[a.Section]; cur.has(a.ID) {
			expanded[a.Section] = cur.without(a.ID)
		} else {
			expanded[a.Section] = cur.with(a.ID)
		}
		s.expanded = expanded

	case OpenShowDetail:
		id := a.ShowID
		s.Modals.ShowDetail = &id
	case CloseShowDetail:
		s.Modals.ShowDetail = nil
	case OpenDocument:
		d := a.Document
		s.Modals.Document = &d
	case CloseDocument:
		s.Modals.Document = nil
	case OpenUniversalOffer:
		o := a.Offer
		s.Modals.UniversalOffer = &o
	case CloseUniversalOffer:
		s.Modals.UniversalOffer = nil
	case OpenBidForm:
		s.Modals.BidForm = &BidFormModal{ShowRequestID: a.ShowRequestID}
	case CloseBidForm:
		s.Modals.BidForm = nil

	case SetDeleting:
		s.deleting = toggle(s.deleting, a.ID, a.Deleting)
	case SetBidAction:
		s.bidActions = toggle(s.bidActions, a.ID, a.Active)

	case MarkDeleted:
		s.deleted = s.deleted.with(a.ID)
	case UnmarkDeleted:
		s.deleted = s.deleted.without(a.ID)
	case OverrideBidStatus:
		s.overrides = copyOverrides(s.overrides)
		s.overrides[a.ID] = a.Status
	case ClearBidStatus:
		s.overrides = copyOverrides(s.overrides)
		delete(s.overrides, a.ID)

	case ResetOptimisticState:
		s.deleted = nil
		s.overrides = nil
	case SetContext:
		if a.Context != s.Context {
			s.deleted = nil
			s.overrides = nil
		}
		s.Context = a.Context
	}
	return s
}

func toggle(s idSet, id uuid.UUID, on bool) idSet {
	if on {
		return s.with(id)
	}
	return s.without(id)
}

func copyOverrides(m map[uuid.UUID]domain.OpportunityStatus) map[uuid.UUID]domain.OpportunityStatus {
	out := make(map[uuid.UUID]domain.OpportunityStatus, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
