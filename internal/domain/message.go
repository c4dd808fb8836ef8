package domain

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const MaxMessageLength = 5000

type Conversation struct {
	ID             uuid.UUID   `json:"id"`
	ParticipantIDs []uuid.UUID `json:"participantIds"`
	LastMessage    *Message    `json:"lastMessage,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return containsID(c.ParticipantIDs, userID)
}

type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversationId"`
	SenderID       uuid.UUID `json:"senderId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewMessage(conversationID, senderID uuid.UUID, content string, now time.Time) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, errors.Wrap(ErrInvalidInput, "message content is required")
	}
	if len(content) > MaxMessageLength {
		return Message{}, errors.Wrapf(ErrInvalidInput, "message longer than %d characters", MaxMessageLength)
	}
	return Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      now,
	}, nil
}
