package http

import (
	"net/http"
	"strconv"

	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/timeline"
)

// Timeline serves the month-grouped view for one artist or one venue.
func (h *Handlers) Timeline(w http.ResponseWriter, r *http.Request) {
	artistID, err := queryID(r, "artistId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	venueID, err := queryID(r, "venueId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var q booking.TimelineQuery
	switch {
	case artistID != nil && venueID != nil:
		writeError(w, r, badInput("pass artistId or venueId, not both"))
		return
	case artistID != nil:
		q.Perspective = timeline.Perspective{Kind: domain.EntityArtist, ID: *artistID}
	case venueID != nil:
		q.Perspective = timeline.Perspective{Kind: domain.EntityVenue, ID: *venueID}
	}
	if q.Statuses, err = queryStatuses(r); err != nil {
		writeError(w, r, err)
		return
	}
	if q.From, err = queryDate(r, "from"); err != nil {
		writeError(w, r, err)
		return
	}
	if q.To, err = queryDate(r, "to"); err != nil {
		writeError(w, r, err)
		return
	}
	if q.IncludeExpired, err = queryBool(r, "includeExpired"); err != nil {
		writeError(w, r, err)
		return
	}
	if q.Legacy, err = queryBool(r, "legacy"); err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.timeline.View(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badInput("invalid %s", name)
	}
	return v, nil
}
