package timeline

import (
	"strings"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/samber/lo"
)

// legacyStatus maps the free-form statuses of the older tables onto the
// canonical opportunity statuses.
func legacyStatus(s string) domain.OpportunityStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OPEN":
		return domain.StatusOpen
	case "CONFIRMED", "ACCEPTED", "BOOKED":
		return domain.StatusConfirmed
	case "DECLINED", "REJECTED":
		return domain.StatusDeclined
	case "CANCELLED", "CANCELED", "WITHDRAWN":
		return domain.StatusCancelled
	case "EXPIRED":
		return domain.StatusExpired
	}
	return domain.StatusPending
}

// FromShow produces one opportunity per lineup slot so every billed artist
// sees the show on their own timeline. Shows without a lineup produce a single
// opportunity for the headliner.
func FromShow(s domain.Show) []domain.Opportunity {
	base := domain.Opportunity{
		ID:             s.ID,
		ArtistID:       s.ArtistID,
		VenueID:        s.VenueID,
		Title:          s.Title,
		ProposedDate:   s.Date,
		InitiatedBy:    domain.InitiatedByVenue,
		SourceType:     domain.SourceShowLineup,
		SourceID:       s.ID,
		Status:         legacyStatus(s.Status),
		FinancialOffer: domain.FinancialOffer{Guarantee: s.Guarantee},
		VenueDetails:   domain.VenueDetails{Capacity: s.Capacity, AgeRestriction: s.AgeLimit},
		HoldState:      domain.HoldStateNone,
		ActiveHolds:    []domain.HoldSummary{},
	}
	if len(s.Lineup) == 0 {
		return []domain.Opportunity{base}
	}

	others := lo.Map(s.Lineup, func(l domain.LineupSlot, _ int) string { return l.ArtistID.String() })
	return lo.Map(s.Lineup, func(slot domain.LineupSlot, _ int) domain.Opportunity {
		o := base
		o.ArtistID = slot.ArtistID
		if slot.ArtistID != s.ArtistID {
			o.ID = uuid.NewSHA1(s.ID, slot.ArtistID[:])
			o.FinancialOffer = domain.FinancialOffer{}
		}
		if slot.Status != "" {
			o.Status = legacyStatus(slot.Status)
		}
		o.PerformanceDetails = domain.PerformanceDetails{
			BillingPosition:  slot.BillingPosition,
			SetLengthMinutes: slot.SetLength,
			OtherActs:        lo.Without(others, slot.ArtistID.String()),
		}
		return o
	})
}

func FromShowRequest(r domain.ShowRequest) domain.Opportunity {
	initiatedBy := r.InitiatedBy
	if initiatedBy == "" {
		initiatedBy = domain.InitiatedByArtist
	}
	var venueID uuid.UUID
	if r.VenueID != nil {
		venueID = *r.VenueID
	}
	return domain.Opportunity{
		ID:             r.ID,
		ArtistID:       r.ArtistID,
		VenueID:        venueID,
		Title:          r.Title,
		ProposedDate:   r.RequestedDate,
		InitiatedBy:    initiatedBy,
		InitiatedByID:  r.CreatedByID,
		SourceType:     domain.SourceShowRequest,
		SourceID:       r.ID,
		Status:         legacyStatus(r.Status),
		Message:        r.Description,
		FinancialOffer: domain.FinancialOffer{Guarantee: r.Guarantee},
		HoldState:      domain.HoldStateNone,
		ActiveHolds:    []domain.HoldSummary{},
	}
}

func FromVenueBid(b domain.VenueBid) domain.Opportunity {
	hold := domain.HoldStateNone
	if strings.EqualFold(b.Status, "HOLD") {
		hold = domain.HoldStateFrozen
	}
	return domain.Opportunity{
		ID:            b.ID,
		ArtistID:      b.ArtistID,
		VenueID:       b.VenueID,
		Title:         "Bid for " + b.ProposedDate.String(),
		ProposedDate:  b.ProposedDate,
		InitiatedBy:   domain.InitiatedByVenue,
		InitiatedByID: b.BidderID,
		SourceType:    domain.SourceVenueBid,
		SourceID:      b.ShowRequestID,
		Status:        legacyStatus(b.Status),
		Message:       b.Message,
		FinancialOffer: domain.FinancialOffer{
			Guarantee:       b.Guarantee,
			DoorDealPercent: b.DoorDeal,
			TicketPrice:     b.TicketPrice,
		},
		VenueDetails: domain.VenueDetails{Capacity: b.Capacity, AgeRestriction: b.AgeRestriction},
		HoldState:    hold,
		ActiveHolds:  []domain.HoldSummary{},
	}
}

func FromVenueOffer(v domain.VenueOffer) domain.Opportunity {
	return domain.Opportunity{
		ID:            v.ID,
		ArtistID:      v.ArtistID,
		VenueID:       v.VenueID,
		Title:         v.Title,
		ProposedDate:  v.ProposedDate,
		InitiatedBy:   domain.InitiatedByVenue,
		InitiatedByID: v.CreatedByID,
		SourceType:    domain.SourceVenueOffer,
		SourceID:      v.ID,
		Status:        legacyStatus(v.Status),
		Message:       v.Message,
		FinancialOffer: domain.FinancialOffer{
			Guarantee:       v.Guarantee,
			DoorDealPercent: v.DoorDeal,
		},
		HoldState:   domain.HoldStateNone,
		ActiveHolds: []domain.HoldSummary{},
	}
}

// Sources bundles the legacy records loaded for one timeline.
type Sources struct {
	Shows        []domain.Show
	ShowRequests []domain.ShowRequest
	VenueBids    []domain.VenueBid
	VenueOffers  []domain.VenueOffer
}

// Normalize adapts every legacy record and appends it after the unified
// opportunities. A legacy record that has already been migrated into a stored
// opportunity (same source and artist) is dropped in favour of the stored one.
func Normalize(unified []domain.Opportunity, src Sources) []domain.Opportunity {
	type sourceKey struct {
		source   domain.SourceType
		sourceID uuid.UUID
		artistID uuid.UUID
	}
	seen := lo.SliceToMap(unified, func(o domain.Opportunity) (sourceKey, bool) {
		return sourceKey{o.SourceType, o.SourceID, o.ArtistID}, true
	})

	legacy := make([]domain.Opportunity, 0, len(src.ShowRequests)+len(src.VenueBids)+len(src.VenueOffers)+len(src.Shows))
	for _, s := range src.Shows {
		legacy = append(legacy, FromShow(s)...)
	}
	legacy = append(legacy, lo.Map(src.ShowRequests, func(r domain.ShowRequest, _ int) domain.Opportunity { return FromShowRequest(r) })...)
	legacy = append(legacy, lo.Map(src.VenueBids, func(b domain.VenueBid, _ int) domain.Opportunity { return FromVenueBid(b) })...)
	legacy = append(legacy, lo.Map(src.VenueOffers, func(v domain.VenueOffer, _ int) domain.Opportunity { return FromVenueOffer(v) })...)

	out := make([]domain.Opportunity, 0, len(unified)+len(legacy))
	out = append(out, unified...)
	for _, o := range legacy {
		if seen[sourceKey{o.SourceType, o.SourceID, o.ArtistID}] {
			continue
		}
		out = append(out, o)
	}
	return lo.UniqBy(out, func(o domain.Opportunity) uuid.UUID { return o.ID })
}
