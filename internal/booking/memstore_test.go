package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/samber/lo"
)

// memStore is an in-memory stand-in for the CockroachDB and Redis adapters.
type memStore struct {
	mu sync.Mutex

	opportunities map[uuid.UUID]domain.Opportunity
	holds         map[uuid.UUID]domain.HoldRequest
	docs          map[uuid.UUID]Document
	locks         map[uuid.UUID]string
	events        []Event

	favorites     map[uuid.UUID][]domain.Favorite
	favoriteLoads int
	favCache      map[uuid.UUID][]domain.Favorite
	favCacheSets  int
	favGen        map[uuid.UUID]int64
	// duringFavoritesLoad runs after ListFavorites has read its rows, outside
	// the store lock.
	duringFavoritesLoad func()

	conversations map[uuid.UUID]domain.Conversation
	messages      map[uuid.UUID][]domain.Message
	embeds        map[uuid.UUID]domain.MediaEmbed
	memberships   map[uuid.UUID][]domain.Membership

	shows        []domain.Show
	showRequests []domain.ShowRequest
	venueBids    []domain.VenueBid
	venueOffers  []domain.VenueOffer
}

func newMemStore() *memStore {
	return &memStore{
		opportunities: map[uuid.UUID]domain.Opportunity{},
		holds:         map[uuid.UUID]domain.HoldRequest{},
		docs:          map[uuid.UUID]Document{},
		locks:         map[uuid.UUID]string{},
		favorites:     map[uuid.UUID][]domain.Favorite{},
		favCache:      map[uuid.UUID][]domain.Favorite{},
		favGen:        map[uuid.UUID]int64{},
		conversations: map[uuid.UUID]domain.Conversation{},
		messages:      map[uuid.UUID][]domain.Message{},
		embeds:        map[uuid.UUID]domain.MediaEmbed{},
		memberships:   map[uuid.UUID][]domain.Membership{},
	}
}

func (m *memStore) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Map(m.events, func(e Event, _ int) string { return e.Type })
}

func (m *memStore) CreateOpportunity(_ context.Context, o domain.Opportunity, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opportunities[o.ID] = o
	m.events = append(m.events, ev)
	return nil
}

func (m *memStore) GetOpportunity(_ context.Context, id uuid.UUID) (domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.opportunities[id]
	if !ok || o.DeletedAt != nil {
		return domain.Opportunity{}, domain.ErrNotFound
	}
	return o, nil
}

func (m *memStore) ListOpportunities(_ context.Context, f OpportunityFilter) ([]domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Opportunity
	for _, o := range m.opportunities {
		switch {
		case o.DeletedAt != nil,
			f.ArtistID != nil && o.ArtistID != *f.ArtistID,
			f.VenueID != nil && o.VenueID != *f.VenueID,
			len(f.Statuses) > 0 && !lo.Contains(f.Statuses, o.Status),
			!f.Before.IsZero() && !o.ProposedDate.Before(f.Before):
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) UpdateOpportunity(_ context.Context, id uuid.UUID, updateFn func(domain.Opportunity) (domain.Opportunity, Event, error)) (domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.opportunities[id]
	if !ok || o.DeletedAt != nil {
		return domain.Opportunity{}, domain.ErrNotFound
	}
	o, ev, err := updateFn(o)
	if err != nil {
		return domain.Opportunity{}, err
	}
	m.opportunities[id] = o
	m.events = append(m.events, ev)
	return o, nil
}

func (m *memStore) CreateHold(_ context.Context, h domain.HoldRequest, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.holds {
		if other.DocumentID() == h.DocumentID() && other.Status.Blocking() {
			return domain.ErrHoldExists
		}
	}
	m.holds[h.ID] = h
	m.events = append(m.events, ev)
	return nil
}

func (m *memStore) GetHold(_ context.Context, id uuid.UUID) (domain.HoldRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holds[id]
	if !ok {
		return domain.HoldRequest{}, domain.ErrNotFound
	}
	return h, nil
}

func (m *memStore) ListHolds(_ context.Context, f HoldFilter) ([]domain.HoldRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HoldRequest
	for _, h := range m.holds {
		if len(f.DocumentIDs) > 0 && !lo.Contains(f.DocumentIDs, h.DocumentID()) {
			continue
		}
		if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, h.Status) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (m *memStore) UpdateHold(_ context.Context, id uuid.UUID, updateFn func(domain.HoldRequest) (HoldUpdate, error)) (domain.HoldRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holds[id]
	if !ok {
		return domain.HoldRequest{}, domain.ErrNotFound
	}
	u, err := updateFn(h)
	if err != nil {
		return domain.HoldRequest{}, err
	}
	m.holds[id] = u.Hold
	m.events = append(m.events, u.Event)
	if c := u.Competing; c != nil {
		for oid, o := range m.opportunities {
			if o.ArtistID != c.Document.Parties.ArtistID || !o.ProposedDate.Equal(c.Document.Date) ||
				o.ID == c.Document.ID || o.SourceID == c.Document.ID {
				continue
			}
			if c.State == domain.HoldStateFrozen && (o.Status == domain.StatusOpen || o.Status == domain.StatusPending) {
				o.HoldState = c.State
			}
			if c.State == domain.HoldStateUnfrozen && o.HoldState == domain.HoldStateFrozen {
				o.HoldState = c.State
			}
			m.opportunities[oid] = o
		}
	}
	return u.Hold, nil
}

func (m *memStore) DueHolds(_ context.Context, now time.Time) ([]domain.HoldRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HoldRequest
	for _, h := range m.holds {
		if h.Status == domain.HoldActive && h.ExpiresAt != nil && !h.ExpiresAt.After(now) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memStore) HoldDocument(_ context.Context, showID, showRequestID *uuid.UUID) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := showID
	if id == nil {
		id = showRequestID
	}
	d, ok := m.docs[*id]
	if !ok {
		return Document{}, domain.ErrNotFound
	}
	return d, nil
}

func (m *memStore) AcquireHoldLock(_ context.Context, documentID uuid.UUID, owner string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[documentID]; held {
		return false, nil
	}
	m.locks[documentID] = owner
	return true, nil
}

func (m *memStore) ReleaseHoldLock(_ context.Context, documentID uuid.UUID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[documentID] == owner {
		delete(m.locks, documentID)
	}
	return nil
}

func (m *memStore) AddFavorite(_ context.Context, f domain.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.favorites[f.UserID] {
		if existing.Key() == f.Key() {
			return nil
		}
	}
	m.favorites[f.UserID] = append(m.favorites[f.UserID], f)
	return nil
}

func (m *memStore) RemoveFavorite(_ context.Context, userID uuid.UUID, key domain.FavoriteKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites[userID] = lo.Filter(m.favorites[userID], func(f domain.Favorite, _ int) bool { return f.Key() != key })
	return nil
}

func (m *memStore) ListFavorites(_ context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	m.mu.Lock()
	m.favoriteLoads++
	out := append([]domain.Favorite(nil), m.favorites[userID]...)
	hook := m.duringFavoritesLoad
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *memStore) GetFavorites(_ context.Context, userID uuid.UUID) ([]domain.Favorite, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	favs, ok := m.favCache[userID]
	return favs, ok, nil
}

func (m *memStore) FavoritesGeneration(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.favGen[userID], nil
}

func (m *memStore) SetFavorites(_ context.Context, userID uuid.UUID, favs []domain.Favorite, _ time.Duration, gen int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.favGen[userID] != gen {
		return false, nil
	}
	m.favCache[userID] = favs
	m.favCacheSets++
	return true, nil
}

func (m *memStore) InvalidateFavorites(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.favCache, userID)
	m.favGen[userID]++
	return nil
}

func (m *memStore) ListConversations(_ context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Conversation
	for _, c := range m.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) GetConversation(_ context.Context, id uuid.UUID) (domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return domain.Conversation{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *memStore) FindConversation(_ context.Context, a, b uuid.UUID) (domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conversations {
		if c.HasParticipant(a) && c.HasParticipant(b) {
			return c, nil
		}
	}
	return domain.Conversation{}, domain.ErrNotFound
}

func (m *memStore) CreateConversation(_ context.Context, c domain.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[c.ID] = c
	return nil
}

func (m *memStore) ListMessages(_ context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[conversationID], nil
}

func (m *memStore) AddMessage(_ context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], msg)
	c := m.conversations[msg.ConversationID]
	c.LastMessage = &msg
	c.UpdatedAt = msg.CreatedAt
	m.conversations[msg.ConversationID] = c
	return nil
}

func (m *memStore) ListEmbeds(_ context.Context, t domain.EntityType, entityID uuid.UUID) ([]domain.MediaEmbed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.MediaEmbed
	for _, e := range m.embeds {
		if e.EntityType == t && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) GetEmbed(_ context.Context, id uuid.UUID) (domain.MediaEmbed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.embeds[id]
	if !ok {
		return domain.MediaEmbed{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *memStore) InsertEmbed(_ context.Context, e domain.MediaEmbed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeds[e.ID] = e
	return nil
}

func (m *memStore) UpdateEmbed(ctx context.Context, e domain.MediaEmbed) error {
	return m.InsertEmbed(ctx, e)
}

func (m *memStore) DeleteEmbed(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.embeds, id)
	return nil
}

func (m *memStore) Memberships(_ context.Context, userID uuid.UUID) ([]domain.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.memberships[userID], nil
}

func (m *memStore) ListShows(_ context.Context, f LegacyFilter) ([]domain.Show, error) {
	return lo.Filter(m.shows, func(s domain.Show, _ int) bool {
		return matchLegacy(f, s.ArtistID, &s.VenueID)
	}), nil
}

func (m *memStore) ListShowRequests(_ context.Context, f LegacyFilter) ([]domain.ShowRequest, error) {
	return lo.Filter(m.showRequests, func(r domain.ShowRequest, _ int) bool {
		return matchLegacy(f, r.ArtistID, r.VenueID)
	}), nil
}

func (m *memStore) ListVenueBids(_ context.Context, f LegacyFilter) ([]domain.VenueBid, error) {
	return lo.Filter(m.venueBids, func(b domain.VenueBid, _ int) bool {
		return matchLegacy(f, b.ArtistID, &b.VenueID)
	}), nil
}

func (m *memStore) ListVenueOffers(_ context.Context, f LegacyFilter) ([]domain.VenueOffer, error) {
	return lo.Filter(m.venueOffers, func(v domain.VenueOffer, _ int) bool {
		return matchLegacy(f, v.ArtistID, &v.VenueID)
	}), nil
}

func matchLegacy(f LegacyFilter, artistID uuid.UUID, venueID *uuid.UUID) bool {
	if f.ArtistID != nil && artistID != *f.ArtistID {
		return false
	}
	if f.VenueID != nil && (venueID == nil || *venueID != *f.VenueID) {
		return false
	}
	return true
}
