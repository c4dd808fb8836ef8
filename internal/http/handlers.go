package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/timeline"
)

type Opportunities interface {
	Create(ctx context.Context, a domain.Actor, p domain.NewOpportunityParams) (domain.Opportunity, error)
	List(ctx context.Context, f booking.OpportunityFilter) ([]domain.Opportunity, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Opportunity, error)
	UpdateStatus(ctx context.Context, a domain.Actor, id uuid.UUID, to domain.OpportunityStatus, reason string) (domain.Opportunity, error)
	Delete(ctx context.Context, a domain.Actor, id uuid.UUID) error
}

type Holds interface {
	Create(ctx context.Context, a domain.Actor, p domain.NewHoldParams) (domain.HoldRequest, error)
	List(ctx context.Context, f booking.HoldFilter) ([]domain.HoldRequest, error)
	Respond(ctx context.Context, a domain.Actor, id uuid.UUID, action domain.HoldAction) (domain.HoldRequest, error)
}

type Timeline interface {
	View(ctx context.Context, q booking.TimelineQuery) (timeline.View, error)
}

type Favorites interface {
	ListByType(ctx context.Context, userID uuid.UUID, t domain.EntityType) ([]domain.Favorite, error)
	IsFavorited(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) (bool, error)
	Add(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) (domain.Favorite, error)
	Remove(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) error
	Toggle(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) (bool, error)
}

type Messages interface {
	Conversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	Start(ctx context.Context, userID, recipientID uuid.UUID, content string) (domain.Conversation, error)
	Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]domain.Message, error)
	Send(ctx context.Context, userID, conversationID uuid.UUID, content string) (domain.Message, error)
}

type Embeds interface {
	List(ctx context.Context, t domain.EntityType, entityID uuid.UUID) ([]domain.MediaEmbed, error)
	Create(ctx context.Context, a domain.Actor, t domain.EntityType, entityID uuid.UUID, in booking.EmbedInput) (domain.MediaEmbed, error)
	Update(ctx context.Context, a domain.Actor, t domain.EntityType, entityID, embedID uuid.UUID, in booking.EmbedInput) (domain.MediaEmbed, error)
	Delete(ctx context.Context, a domain.Actor, t domain.EntityType, entityID, embedID uuid.UUID) error
}

type Legacy interface {
	Shows(ctx context.Context, f booking.LegacyFilter) ([]domain.Show, error)
	ShowRequests(ctx context.Context, f booking.LegacyFilter) ([]domain.ShowRequest, error)
	ArtistOffers(ctx context.Context, artistID uuid.UUID) ([]domain.VenueOffer, error)
}

// Pinger is checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	opportunities Opportunities
	holds         Holds
	timeline      Timeline
	favorites     Favorites
	messages      Messages
	embeds        Embeds
	legacy        Legacy
	deps          map[string]Pinger
}

type Services struct {
	Opportunities Opportunities
	Holds         Holds
	Timeline      Timeline
	Favorites     Favorites
	Messages      Messages
	Embeds        Embeds
	Legacy        Legacy
	// Deps are named backends that must answer for the service to be ready.
	Deps map[string]Pinger
}

func NewHandlers(s Services) *Handlers {
	return &Handlers{
		opportunities: s.Opportunities,
		holds:         s.Holds,
		timeline:      s.Timeline,
		favorites:     s.Favorites,
		messages:      s.Messages,
		embeds:        s.Embeds,
		legacy:        s.Legacy,
		deps:          s.Deps,
	}
}
