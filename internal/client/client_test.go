package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/itinerary"
	"github.com/robertarktes/show-booking/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	user := uuid.New()
	raw, err := NewToken([]byte("s3cret"), user, time.Minute)
	require.NoError(t, err)

	tok, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
	require.NoError(t, err)
	sub, err := tok.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, user.String(), sub)
}

func TestClient(t *testing.T) {
	artist := uuid.New()
	id := uuid.New()
	var gotAuth, gotQuery string
	var gotBody map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/timeline", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		o := domain.Opportunity{ID: id, ArtistID: artist, Status: domain.StatusPending, ProposedDate: domain.NewDate(2025, 8, 1)}
		view := timeline.View{Groups: []timeline.MonthGroup{{Key: "2025-08", Entries: []timeline.Entry{timeline.EntryFor(o)}, Count: 1}}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(view)
	})
	mux.HandleFunc("/api/booking-opportunities/"+id.String(), func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"DECLINED -> CONFIRMED: invalid status transition"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL+"/", "tok")
	ctx := context.Background()

	t.Run("timeline query and auth header", func(t *testing.T) {
		view, err := c.Timeline(ctx, TimelineParams{
			Perspective: timeline.Perspective{Kind: domain.EntityArtist, ID: artist},
			Statuses:    []domain.OpportunityStatus{domain.StatusPending},
			Legacy:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok", gotAuth)
		assert.Contains(t, gotQuery, "artistId="+artist.String())
		assert.Contains(t, gotQuery, "status=PENDING")
		assert.Contains(t, gotQuery, "legacy=true")
		require.Len(t, view.Groups, 1)
	})

	t.Run("api errors unwrap to domain errors", func(t *testing.T) {
		_, err := c.UpdateStatus(ctx, id, domain.StatusConfirmed, "great fit")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Contains(t, apiErr.Message, "invalid status transition")
		assert.Equal(t, map[string]string{"status": "CONFIRMED", "reason": "great fit"}, gotBody)
	})

	t.Run("itinerary backend flattens month groups", func(t *testing.T) {
		b := ItineraryBackend{Client: c}
		entries, err := b.Entries(ctx, itinerary.Context{Kind: domain.EntityArtist, ID: artist})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, id, entries[0].ID())
		assert.NoError(t, b.Delete(ctx, id))
	})
}
