package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCountdown_PastDeadlineFiresOnce(t *testing.T) {
	now := time.Now()
	calls := 0
	c := domain.NewCountdown(now.Add(-time.Second), func() { calls++ })

	remaining, done := c.Tick(now)
	assert.Zero(t, remaining)
	assert.True(t, done)

	c.Tick(now.Add(time.Second))
	c.Tick(now.Add(2 * time.Second))

	assert.Equal(t, 1, calls)
	assert.True(t, c.Expired())
}

func TestCountdown_RecomputesFromDeadline(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	var urgencies []domain.Urgency
	c := domain.NewCountdown(start.Add(3*time.Hour), func() { calls++ })
	c.OnTick = func(_ time.Duration, u domain.Urgency) { urgencies = append(urgencies, u) }

	remaining, done := c.Tick(start)
	assert.Equal(t, 3*time.Hour, remaining)
	assert.False(t, done)

	remaining, _ = c.Tick(start.Add(2 * time.Hour))
	assert.Equal(t, time.Hour, remaining)
	assert.Zero(t, calls)

	_, done = c.Tick(start.Add(3 * time.Hour))
	assert.True(t, done)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []domain.Urgency{domain.UrgencyWarning, domain.UrgencyCritical, domain.UrgencyCritical}, urgencies)
}

func TestCountdown_RunStopsAfterExpiry(t *testing.T) {
	calls := 0
	c := domain.NewCountdown(time.Now().Add(-time.Second), func() { calls++ })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c.Run(ctx, 10*time.Millisecond, nil)

	assert.Equal(t, 1, calls)
	assert.NoError(t, ctx.Err())
}
