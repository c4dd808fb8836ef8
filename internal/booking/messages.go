package booking

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

type MessageService struct {
	repo MessageRepository
	now  func() time.Time
}

func NewMessageService(repo MessageRepository) *MessageService {
	return &MessageService{repo: repo, now: time.Now}
}

func (s *MessageService) Conversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// Start returns the conversation between the two users, creating it if
// needed, and posts content to it when content is not empty.
func (s *MessageService) Start(ctx context.Context, userID, recipientID uuid.UUID, content string) (domain.Conversation, error) {
	if recipientID == uuid.Nil || recipientID == userID {
		return domain.Conversation{}, errors.Wrap(domain.ErrInvalidInput, "recipientId must be another user")
	}
	c, err := s.repo.FindConversation(ctx, userID, recipientID)
	if errors.Is(err, domain.ErrNotFound) {
		now := s.now()
		c = domain.Conversation{
			ID:             uuid.New(),
			ParticipantIDs: []uuid.UUID{userID, recipientID},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		err = s.repo.CreateConversation(ctx, c)
	}
	if err != nil {
		return domain.Conversation{}, errors.Wrap(err, "find or create conversation")
	}
	if content == "" {
		return c, nil
	}
	m, err := s.post(ctx, c, userID, content)
	if err != nil {
		return domain.Conversation{}, err
	}
	c.LastMessage = &m
	c.UpdatedAt = m.CreatedAt
	return c, nil
}

func (s *MessageService) Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.participant(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID)
}

func (s *MessageService) Send(ctx context.Context, userID, conversationID uuid.UUID, content string) (domain.Message, error) {
	c, err := s.participant(ctx, userID, conversationID)
	if err != nil {
		return domain.Message{}, err
	}
	return s.post(ctx, c, userID, content)
}

func (s *MessageService) participant(ctx context.Context, userID, conversationID uuid.UUID) (domain.Conversation, error) {
	c, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if !c.HasParticipant(userID) {
		return domain.Conversation{}, errors.Wrap(domain.ErrForbidden, "not a participant")
	}
	return c, nil
}

func (s *MessageService) post(ctx context.Context, c domain.Conversation, userID uuid.UUID, content string) (domain.Message, error) {
	m, err := domain.NewMessage(c.ID, userID, content, s.now())
	if err != nil {
		return domain.Message{}, err
	}
	if err := s.repo.AddMessage(ctx, m); err != nil {
		return domain.Message{}, errors.Wrap(err, "add message")
	}
	return m, nil
}
