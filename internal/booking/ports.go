// Package booking holds the application services behind the HTTP API. Each
// service works against the small repository interfaces declared here; the
// CockroachDB, Redis and MongoDB adapters implement them.
package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

type OpportunityFilter struct {
	ArtistID *uuid.UUID
	VenueID  *uuid.UUID
	Statuses []domain.OpportunityStatus
	// Before keeps opportunities proposed strictly before this date.
	Before domain.Date
}

type OpportunityRepository interface {
	CreateOpportunity(ctx context.Context, o domain.Opportunity, ev Event) error
	// GetOpportunity never returns soft-deleted rows.
	GetOpportunity(ctx context.Context, id uuid.UUID) (domain.Opportunity, error)
	ListOpportunities(ctx context.Context, f OpportunityFilter) ([]domain.Opportunity, error)
	// UpdateOpportunity loads the row, applies updateFn and stores the result
	// together with the returned event in one transaction.
	UpdateOpportunity(ctx context.Context, id uuid.UUID, updateFn func(o domain.Opportunity) (domain.Opportunity, Event, error)) (domain.Opportunity, error)
}

type HoldFilter struct {
	DocumentIDs []uuid.UUID
	Statuses    []domain.HoldStatus
}

// CompetingState asks the repository to move the artist's other open or
// pending opportunities on the document's date to State.
type CompetingState struct {
	Document Document
	State    domain.HoldState
}

type HoldUpdate struct {
	Hold      domain.HoldRequest
	Event     Event
	Competing *CompetingState
}

type HoldRepository interface {
	// CreateHold returns domain.ErrHoldExists when another pending or active
	// hold already locks the document.
	CreateHold(ctx context.Context, h domain.HoldRequest, ev Event) error
	GetHold(ctx context.Context, id uuid.UUID) (domain.HoldRequest, error)
	ListHolds(ctx context.Context, f HoldFilter) ([]domain.HoldRequest, error)
	UpdateHold(ctx context.Context, id uuid.UUID, updateFn func(h domain.HoldRequest) (HoldUpdate, error)) (domain.HoldRequest, error)
	// DueHolds lists active holds whose deadline is at or before now.
	DueHolds(ctx context.Context, now time.Time) ([]domain.HoldRequest, error)
}

// Document is the show or show request a hold locks.
type Document struct {
	ID      uuid.UUID
	Parties domain.Parties
	Date    domain.Date
}

type DocumentRepository interface {
	HoldDocument(ctx context.Context, showID, showRequestID *uuid.UUID) (Document, error)
}

type HoldLocker interface {
	AcquireHoldLock(ctx context.Context, documentID uuid.UUID, owner string, ttl time.Duration) (bool, error)
	ReleaseHoldLock(ctx context.Context, documentID uuid.UUID, owner string) error
}

type LegacyFilter struct {
	ArtistID *uuid.UUID
	VenueID  *uuid.UUID
}

type LegacyRepository interface {
	ListShows(ctx context.Context, f LegacyFilter) ([]domain.Show, error)
	ListShowRequests(ctx context.Context, f LegacyFilter) ([]domain.ShowRequest, error)
	ListVenueBids(ctx context.Context, f LegacyFilter) ([]domain.VenueBid, error)
	ListVenueOffers(ctx context.Context, f LegacyFilter) ([]domain.VenueOffer, error)
}

type FavoriteRepository interface {
	// AddFavorite is a no-op when the favorite already exists.
	AddFavorite(ctx context.Context, f domain.Favorite) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, key domain.FavoriteKey) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error)
}

type FavoriteCache interface {
	GetFavorites(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, bool, error)
	// FavoritesGeneration is bumped by every InvalidateFavorites. SetFavorites
	// only writes while the generation still equals gen.
	FavoritesGeneration(ctx context.Context, userID uuid.UUID) (int64, error)
	SetFavorites(ctx context.Context, userID uuid.UUID, favs []domain.Favorite, ttl time.Duration, gen int64) (bool, error)
	InvalidateFavorites(ctx context.Context, userID uuid.UUID) error
}

type MessageRepository interface {
	ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	FindConversation(ctx context.Context, a, b uuid.UUID) (domain.Conversation, error)
	CreateConversation(ctx context.Context, c domain.Conversation) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
	AddMessage(ctx context.Context, m domain.Message) error
}

type EmbedRepository interface {
	ListEmbeds(ctx context.Context, t domain.EntityType, entityID uuid.UUID) ([]domain.MediaEmbed, error)
	GetEmbed(ctx context.Context, id uuid.UUID) (domain.MediaEmbed, error)
	InsertEmbed(ctx context.Context, e domain.MediaEmbed) error
	UpdateEmbed(ctx context.Context, e domain.MediaEmbed) error
	DeleteEmbed(ctx context.Context, id uuid.UUID) error
}

type MembershipRepository interface {
	Memberships(ctx context.Context, userID uuid.UUID) ([]domain.Membership, error)
}
