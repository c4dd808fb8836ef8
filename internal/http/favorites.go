package http

import (
	"net/http"
	"strings"

	"github.com/robertarktes/show-booking/internal/domain"
)

type favoriteRequest struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
}

func (req favoriteRequest) key() (domain.FavoriteKey, error) {
	t := domain.EntityType(strings.ToUpper(strings.TrimSpace(req.EntityType)))
	if !t.Valid() {
		return domain.FavoriteKey{}, badInput("unknown entity type %q", req.EntityType)
	}
	id, err := parseBodyID("entityId", req.EntityID)
	if err != nil {
		return domain.FavoriteKey{}, err
	}
	return domain.FavoriteKey{EntityType: t, EntityID: id}, nil
}

func favoriteQuery(r *http.Request) favoriteRequest {
	q := r.URL.Query()
	return favoriteRequest{EntityType: q.Get("entityType"), EntityID: q.Get("entityId")}
}

func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	t, err := queryEntityType(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	favs, err := h.favorites.ListByType(r.Context(), ActorFromContext(r.Context()).UserID, t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	key, err := req.key()
	if err != nil {
		writeError(w, r, err)
		return
	}
	fav, err := h.favorites.Add(r.Context(), ActorFromContext(r.Context()).UserID, key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	key, err := favoriteQuery(r).key()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.favorites.Remove(r.Context(), ActorFromContext(r.Context()).UserID, key); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type favoriteState struct {
	Favorited bool `json:"favorited"`
}

func (h *Handlers) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	key, err := favoriteQuery(r).key()
	if err != nil {
		writeError(w, r, err)
		return
	}
	on, err := h.favorites.IsFavorited(r.Context(), ActorFromContext(r.Context()).UserID, key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteState{Favorited: on})
}

func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	key, err := req.key()
	if err != nil {
		writeError(w, r, err)
		return
	}
	on, err := h.favorites.Toggle(r.Context(), ActorFromContext(r.Context()).UserID, key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteState{Favorited: on})
}
