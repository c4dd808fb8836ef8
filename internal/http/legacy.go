package http

import (
	"net/http"

	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
)

func legacyFilter(r *http.Request) (booking.LegacyFilter, error) {
	var f booking.LegacyFilter
	var err error
	if f.ArtistID, err = queryID(r, "artistId"); err != nil {
		return f, err
	}
	f.VenueID, err = queryID(r, "venueId")
	return f, err
}

func (h *Handlers) ListShows(w http.ResponseWriter, r *http.Request) {
	f, err := legacyFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shows, err := h.legacy.Shows(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if shows == nil {
		shows = []domain.Show{}
	}
	writeJSON(w, http.StatusOK, shows)
}

func (h *Handlers) ListShowRequests(w http.ResponseWriter, r *http.Request) {
	f, err := legacyFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requests, err := h.legacy.ShowRequests(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if requests == nil {
		requests = []domain.ShowRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handlers) ListArtistOffers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offers, err := h.legacy.ArtistOffers(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if offers == nil {
		offers = []domain.VenueOffer{}
	}
	writeJSON(w, http.StatusOK, offers)
}
