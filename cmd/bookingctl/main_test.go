package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFor(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestUsage(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	for _, args := range [][]string{nil, {"unknown"}, {"hold"}, {"hold", "list"}, {"accept"}} {
		err := run(ctx, args, &out, envFor(nil))
		assert.True(t, errors.Is(err, errUsage), "args %v", args)
	}
}

func TestTokenCommand(t *testing.T) {
	var out bytes.Buffer
	user := uuid.New()
	err := run(context.Background(), []string{"token", "-user", user.String()}, &out, envFor(map[string]string{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "."), 3)

	err = run(context.Background(), []string{"token", "-user", user.String()}, &out, envFor(nil))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAgainstAPI(t *testing.T) {
	artist := uuid.New()
	opp := domain.Opportunity{
		ID:           uuid.New(),
		ArtistID:     artist,
		VenueID:      uuid.New(),
		Title:        "Friday late show",
		ProposedDate: domain.NewDate(2031, 3, 14),
		Status:       domain.StatusPending,
		SourceType:   domain.SourceBookingOpportunity,
	}
	show := uuid.New()
	past := time.Now().Add(-time.Minute)
	var gotStatus string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/timeline", func(w http.ResponseWriter, r *http.Request) {
		view := timeline.View{Groups: []timeline.MonthGroup{{Key: "2031-03", Entries: []timeline.Entry{timeline.EntryFor(opp)}, Count: 1}}}
		view.Stats.Total = 1
		_ = json.NewEncoder(w).Encode(view)
	})
	mux.HandleFunc("/api/booking-opportunities/"+opp.ID.String(), func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotStatus = body["status"]
		updated := opp
		updated.Status = domain.OpportunityStatus(gotStatus)
		_ = json.NewEncoder(w).Encode(updated)
	})
	mux.HandleFunc("/api/hold-requests", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, show.String(), r.URL.Query().Get("showId"))
		_ = json.NewEncoder(w).Encode([]domain.HoldRequest{{ID: uuid.New(), ShowID: &show, Status: domain.HoldActive, ExpiresAt: &past}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	env := envFor(map[string]string{"BOOKING_API_URL": srv.URL, "BOOKING_TOKEN": "tok"})
	ctx := context.Background()

	t.Run("timeline", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, []string{"timeline", "-artist", artist.String()}, &out, env))
		assert.Contains(t, out.String(), "2031-03")
		assert.Contains(t, out.String(), "Friday late show")
		assert.Contains(t, out.String(), "1 entries")
	})

	t.Run("timeline needs one perspective", func(t *testing.T) {
		var out bytes.Buffer
		err := run(ctx, []string{"timeline", "-artist", artist.String(), "-venue", artist.String()}, &out, env)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("accept", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, []string{"accept", "-artist", artist.String(), opp.ID.String()}, &out, env))
		assert.Equal(t, string(domain.StatusConfirmed), gotStatus)
		assert.Contains(t, out.String(), "CONFIRMED")
	})

	t.Run("hold watch on an expired hold", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, []string{"hold", "watch", "-show", show.String()}, &out, env))
		assert.Contains(t, out.String(), "expired")
	})
}
