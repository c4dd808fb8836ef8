package http

import (
	"net/http"

	"github.com/robertarktes/show-booking/internal/domain"
)

func (h *Handlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.messages.Conversations(r.Context(), ActorFromContext(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	writeJSON(w, http.StatusOK, convs)
}

type startConversationRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

func (h *Handlers) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	recipient, err := parseBodyID("recipientId", req.RecipientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.messages.Start(r.Context(), ActorFromContext(r.Context()).UserID, recipient, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversationId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	msgs, err := h.messages.Messages(r.Context(), ActorFromContext(r.Context()).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "conversationId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.messages.Send(r.Context(), ActorFromContext(r.Context()).UserID, id, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
