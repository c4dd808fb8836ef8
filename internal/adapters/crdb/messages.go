package crdb

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/show-booking/internal/domain"
)

// conversationQuery selects conversations with their participants and the
// latest message, newest activity first.
const conversationQuery = `
	SELECT c.id, c.created_at, c.updated_at,
		ARRAY(SELECT p.user_id::STRING FROM conversation_participants p
			WHERE p.conversation_id = c.id ORDER BY p.user_id),
		m.id, m.sender_id, m.content, m.created_at
	FROM conversations c
	LEFT JOIN LATERAL (
		SELECT id, sender_id, content, created_at FROM messages
		WHERE conversation_id = c.id ORDER BY created_at DESC LIMIT 1
	) m ON true
`

func scanConversation(row pgx.Row) (domain.Conversation, error) {
	var (
		c           domain.Conversation
		participant []string
		msgID       *uuid.UUID
		senderID    *uuid.UUID
		content     *string
		sentAt      *time.Time
	)
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &participant, &msgID, &senderID, &content, &sentAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, domain.ErrNotFound
	}
	if err != nil {
		return c, err
	}
	for _, p := range participant {
		id, err := uuid.Parse(p)
		if err != nil {
			return c, errors.Wrapf(err, "conversation %s participant", c.ID)
		}
		c.ParticipantIDs = append(c.ParticipantIDs, id)
	}
	if msgID != nil {
		c.LastMessage = &domain.Message{
			ID:             *msgID,
			ConversationID: c.ID,
			SenderID:       *senderID,
			Content:        *content,
			CreatedAt:      *sentAt,
		}
	}
	return c, nil
}

func (r *Repository) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	rows, err := r.pool.Query(ctx, conversationQuery+`
		WHERE EXISTS (SELECT 1 FROM conversation_participants p
			WHERE p.conversation_id = c.id AND p.user_id = $1)
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Conversation{}
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetConversation(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	return scanConversation(r.pool.QueryRow(ctx, conversationQuery+` WHERE c.id = $1`, id))
}

// FindConversation returns the two-party conversation between a and b.
func (r *Repository) FindConversation(ctx context.Context, a, b uuid.UUID) (domain.Conversation, error) {
	return scanConversation(r.pool.QueryRow(ctx, conversationQuery+`
		WHERE (SELECT count(*) FROM conversation_participants p WHERE p.conversation_id = c.id) = 2
			AND EXISTS (SELECT 1 FROM conversation_participants p WHERE p.conversation_id = c.id AND p.user_id = $1)
			AND EXISTS (SELECT 1 FROM conversation_participants p WHERE p.conversation_id = c.id AND p.user_id = $2)
		LIMIT 1
	`, a, b))
}

func (r *Repository) CreateConversation(ctx context.Context, c domain.Conversation) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO conversations (id, created_at, updated_at) VALUES ($1, $2, $3)
		`, c.ID, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return err
		}
		for _, p := range c.ParticipantIDs {
			_, err := tx.Exec(ctx, `
				INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)
			`, c.ID, p)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMessage stores m and bumps the conversation's activity time.
func (r *Repository) AddMessage(ctx context.Context, m domain.Message) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO messages (id, conversation_id, sender_id, content, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, m.ID, m.ConversationID, m.SenderID, m.Content, m.CreatedAt)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE conversations SET updated_at = $2 WHERE id = $1`, m.ConversationID, m.CreatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
