package http

import (
	"net/http"

	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
)

type createOpportunityRequest struct {
	ArtistID           string                    `json:"artistId"`
	VenueID            string                    `json:"venueId"`
	Title              string                    `json:"title"`
	ProposedDate       domain.Date               `json:"proposedDate"`
	InitiatedBy        domain.InitiatedBy        `json:"initiatedBy"`
	Open               bool                      `json:"open"`
	Message            string                    `json:"message"`
	FinancialOffer     domain.FinancialOffer     `json:"financialOffer"`
	PerformanceDetails domain.PerformanceDetails `json:"performanceDetails"`
	VenueDetails       domain.VenueDetails       `json:"venueDetails"`
	AdditionalValue    domain.AdditionalValue    `json:"additionalValue"`
}

func (h *Handlers) CreateOpportunity(w http.ResponseWriter, r *http.Request) {
	var req createOpportunityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	artistID, err := parseBodyID("artistId", req.ArtistID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	venueID, err := parseBodyID("venueId", req.VenueID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.opportunities.Create(r.Context(), ActorFromContext(r.Context()), domain.NewOpportunityParams{
		ArtistID:           artistID,
		VenueID:            venueID,
		Title:              req.Title,
		ProposedDate:       req.ProposedDate,
		InitiatedBy:        req.InitiatedBy,
		OpenBidding:        req.Open,
		Message:            req.Message,
		FinancialOffer:     req.FinancialOffer,
		PerformanceDetails: req.PerformanceDetails,
		VenueDetails:       req.VenueDetails,
		AdditionalValue:    req.AdditionalValue,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handlers) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	var f booking.OpportunityFilter
	var err error
	if f.ArtistID, err = queryID(r, "artistId"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.VenueID, err = queryID(r, "venueId"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.Statuses, err = queryStatuses(r); err != nil {
		writeError(w, r, err)
		return
	}

	ops, err := h.opportunities.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ops == nil {
		ops = []domain.Opportunity{}
	}
	writeJSON(w, http.StatusOK, ops)
}

func (h *Handlers) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	o, err := h.opportunities.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (h *Handlers) UpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	to, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.opportunities.UpdateStatus(r.Context(), ActorFromContext(r.Context()), id, to, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handlers) DeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.opportunities.Delete(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
