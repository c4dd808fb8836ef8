package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
)

type createHoldRequest struct {
	ShowID        string `json:"showId"`
	ShowRequestID string `json:"showRequestId"`
	Duration      int    `json:"duration"`
	Reason        string `json:"reason"`
	CustomMessage string `json:"customMessage"`
}

func (h *Handlers) CreateHold(w http.ResponseWriter, r *http.Request) {
	var req createHoldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	showID, err := parseOptionalBodyID("showId", req.ShowID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	showRequestID, err := parseOptionalBodyID("showRequestId", req.ShowRequestID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hold, err := h.holds.Create(r.Context(), ActorFromContext(r.Context()), domain.NewHoldParams{
		ShowID:        showID,
		ShowRequestID: showRequestID,
		Duration:      req.Duration,
		Reason:        req.Reason,
		CustomMessage: req.CustomMessage,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, hold)
}

func (h *Handlers) ListHolds(w http.ResponseWriter, r *http.Request) {
	var f booking.HoldFilter
	for _, name := range []string{"showId", "showRequestId"} {
		id, err := queryID(r, name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if id != nil {
			f.DocumentIDs = append(f.DocumentIDs, *id)
		}
	}
	for _, raw := range queryList(r, "status") {
		st := domain.HoldStatus(strings.ToUpper(raw))
		switch st {
		case domain.HoldPending, domain.HoldActive, domain.HoldExpired, domain.HoldCancelled, domain.HoldDeclined:
			f.Statuses = append(f.Statuses, st)
		default:
			writeError(w, r, badInput("unknown hold status %q", raw))
			return
		}
	}

	holds, err := h.holds.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if holds == nil {
		holds = []domain.HoldRequest{}
	}
	writeJSON(w, http.StatusOK, holds)
}

type respondHoldRequest struct {
	Action string `json:"action"`
}

func (h *Handlers) RespondHold(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req respondHoldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	action, err := domain.ParseHoldAction(req.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}

	hold, err := h.holds.Respond(r.Context(), ActorFromContext(r.Context()), id, action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

func parseOptionalBodyID(name, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseBodyID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
