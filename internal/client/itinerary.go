package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/itinerary"
	"github.com/robertarktes/show-booking/internal/timeline"
)

// ItineraryBackend lets an itinerary.Controller read and mutate through the
// API.
type ItineraryBackend struct {
	Client *Client
	Legacy bool
}

func (b ItineraryBackend) Entries(ctx context.Context, c itinerary.Context) ([]timeline.Entry, error) {
	view, err := b.Client.Timeline(ctx, TimelineParams{
		Perspective: timeline.Perspective{Kind: c.Kind, ID: c.ID},
		Legacy:      b.Legacy,
	})
	if err != nil {
		return nil, err
	}
	var out []timeline.Entry
	for _, g := range view.Groups {
		out = append(out, g.Entries...)
	}
	return out, nil
}

func (b ItineraryBackend) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.OpportunityStatus, reason string) error {
	_, err := b.Client.UpdateStatus(ctx, id, to, reason)
	return err
}

func (b ItineraryBackend) Delete(ctx context.Context, id uuid.UUID) error {
	return b.Client.DeleteOpportunity(ctx, id)
}
