package booking

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_StartFindsExistingConversation(t *testing.T) {
	store := newMemStore()
	s := NewMessageService(store)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	c1, err := s.Start(ctx, a, b, "hi, is 9/1 open?")
	require.NoError(t, err)
	require.NotNil(t, c1.LastMessage)

	c2, err := s.Start(ctx, b, a, "")
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)

	msgs, err := s.Messages(ctx, b, c1.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, a, msgs[0].SenderID)
}

func TestMessageService_ParticipantsOnly(t *testing.T) {
	store := newMemStore()
	s := NewMessageService(store)
	ctx := context.Background()
	a, b, outsider := uuid.New(), uuid.New(), uuid.New()

	c, err := s.Start(ctx, a, b, "")
	require.NoError(t, err)

	_, err = s.Messages(ctx, outsider, c.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = s.Send(ctx, outsider, c.ID, "let me in")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestMessageService_Validation(t *testing.T) {
	store := newMemStore()
	s := NewMessageService(store)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := s.Start(ctx, a, a, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	c, err := s.Start(ctx, a, b, "")
	require.NoError(t, err)
	_, err = s.Send(ctx, a, c.ID, "   ")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = s.Send(ctx, a, c.ID, strings.Repeat("x", domain.MaxMessageLength+1))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
