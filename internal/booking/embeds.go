package booking

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
)

type EmbedService struct {
	repo EmbedRepository
	now  func() time.Time
}

func NewEmbedService(repo EmbedRepository) *EmbedService {
	return &EmbedService{repo: repo, now: time.Now}
}

type EmbedInput struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Position *int   `json:"position,omitempty"`
}

func (s *EmbedService) List(ctx context.Context, t domain.EntityType, entityID uuid.UUID) ([]domain.MediaEmbed, error) {
	if !t.Valid() {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "unknown entity type %q", t)
	}
	return s.repo.ListEmbeds(ctx, t, entityID)
}

// Create appends an embed. Without a position it goes after the existing ones.
func (s *EmbedService) Create(ctx context.Context, a domain.Actor, t domain.EntityType, entityID uuid.UUID, in EmbedInput) (domain.MediaEmbed, error) {
	if err := authorizeEmbed(a, t, entityID); err != nil {
		return domain.MediaEmbed{}, err
	}
	pos := 0
	if in.Position != nil {
		pos = *in.Position
	} else {
		existing, err := s.repo.ListEmbeds(ctx, t, entityID)
		if err != nil {
			return domain.MediaEmbed{}, errors.Wrap(err, "list embeds")
		}
		pos = len(existing)
	}
	e, err := domain.NewMediaEmbed(t, entityID, in.URL, in.Title, pos, s.now())
	if err != nil {
		return domain.MediaEmbed{}, err
	}
	if err := s.repo.InsertEmbed(ctx, e); err != nil {
		return domain.MediaEmbed{}, errors.Wrap(err, "insert embed")
	}
	return e, nil
}

func (s *EmbedService) Update(ctx context.Context, a domain.Actor, t domain.EntityType, entityID, embedID uuid.UUID, in EmbedInput) (domain.MediaEmbed, error) {
	e, err := s.owned(ctx, a, t, entityID, embedID)
	if err != nil {
		return domain.MediaEmbed{}, err
	}
	if url := strings.TrimSpace(in.URL); url != "" {
		p, err := domain.DetectProvider(url)
		if err != nil {
			return domain.MediaEmbed{}, err
		}
		e.URL, e.Provider = url, p
	}
	e.Title = strings.TrimSpace(in.Title)
	if in.Position != nil {
		e.Position = *in.Position
	}
	e.UpdatedAt = s.now()
	if err := s.repo.UpdateEmbed(ctx, e); err != nil {
		return domain.MediaEmbed{}, errors.Wrap(err, "update embed")
	}
	return e, nil
}

func (s *EmbedService) Delete(ctx context.Context, a domain.Actor, t domain.EntityType, entityID, embedID uuid.UUID) error {
	if _, err := s.owned(ctx, a, t, entityID, embedID); err != nil {
		return err
	}
	return s.repo.DeleteEmbed(ctx, embedID)
}

func (s *EmbedService) owned(ctx context.Context, a domain.Actor, t domain.EntityType, entityID, embedID uuid.UUID) (domain.MediaEmbed, error) {
	if err := authorizeEmbed(a, t, entityID); err != nil {
		return domain.MediaEmbed{}, err
	}
	e, err := s.repo.GetEmbed(ctx, embedID)
	if err != nil {
		return domain.MediaEmbed{}, err
	}
	if e.EntityType != t || e.EntityID != entityID {
		return domain.MediaEmbed{}, domain.ErrNotFound
	}
	return e, nil
}

func authorizeEmbed(a domain.Actor, t domain.EntityType, entityID uuid.UUID) error {
	if !t.Valid() {
		return errors.Wrapf(domain.ErrInvalidInput, "unknown entity type %q", t)
	}
	if !a.Manages(t, entityID) {
		return errors.Wrapf(domain.ErrForbidden, "not a member of this %s", t)
	}
	return nil
}
