package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
)

// embedRoutes serves the embeds of one entity type; t is fixed by the mount
// point (/artists or /venues).
type embedRoutes struct {
	h *Handlers
	t domain.EntityType
}

func (e embedRoutes) list(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	embeds, err := e.h.embeds.List(r.Context(), e.t, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if embeds == nil {
		embeds = []domain.MediaEmbed{}
	}
	writeJSON(w, http.StatusOK, embeds)
}

func (e embedRoutes) create(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in booking.EmbedInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	embed, err := e.h.embeds.Create(r.Context(), ActorFromContext(r.Context()), e.t, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, embed)
}

func (e embedRoutes) update(w http.ResponseWriter, r *http.Request) {
	id, embedID, err := embedPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in booking.EmbedInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	embed, err := e.h.embeds.Update(r.Context(), ActorFromContext(r.Context()), e.t, id, embedID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, embed)
}

func (e embedRoutes) delete(w http.ResponseWriter, r *http.Request) {
	id, embedID, err := embedPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := e.h.embeds.Delete(r.Context(), ActorFromContext(r.Context()), e.t, id, embedID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func embedPath(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	embedID, err := pathID(r, "embedId")
	return id, embedID, err
}
