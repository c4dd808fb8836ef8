package booking

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/timeline"
	"golang.org/x/sync/errgroup"
)

// LegacyService serves the records that predate booking opportunities.
type LegacyService struct {
	repo LegacyRepository
}

func NewLegacyService(repo LegacyRepository) *LegacyService {
	return &LegacyService{repo: repo}
}

func (s *LegacyService) Shows(ctx context.Context, f LegacyFilter) ([]domain.Show, error) {
	return s.repo.ListShows(ctx, f)
}

func (s *LegacyService) ShowRequests(ctx context.Context, f LegacyFilter) ([]domain.ShowRequest, error) {
	return s.repo.ListShowRequests(ctx, f)
}

func (s *LegacyService) ArtistOffers(ctx context.Context, artistID uuid.UUID) ([]domain.VenueOffer, error) {
	return s.repo.ListVenueOffers(ctx, LegacyFilter{ArtistID: &artistID})
}

// Sources loads all four legacy record kinds concurrently.
func (s *LegacyService) Sources(ctx context.Context, f LegacyFilter) (timeline.Sources, error) {
	var src timeline.Sources
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		src.Shows, err = s.repo.ListShows(gctx, f)
		return errors.Wrap(err, "shows")
	})
	g.Go(func() (err error) {
		src.ShowRequests, err = s.repo.ListShowRequests(gctx, f)
		return errors.Wrap(err, "show requests")
	})
	g.Go(func() (err error) {
		src.VenueBids, err = s.repo.ListVenueBids(gctx, f)
		return errors.Wrap(err, "venue bids")
	})
	g.Go(func() (err error) {
		src.VenueOffers, err = s.repo.ListVenueOffers(gctx, f)
		return errors.Wrap(err, "venue offers")
	})
	if err := g.Wait(); err != nil {
		return timeline.Sources{}, errors.Wrap(err, "load legacy sources")
	}
	return src, nil
}

// ActiveStatuses are shown when a timeline query names no status. Declined
// and cancelled opportunities stay stored but leave the active view.
var ActiveStatuses = []domain.OpportunityStatus{domain.StatusOpen, domain.StatusPending, domain.StatusConfirmed}

type TimelineQuery struct {
	Perspective    timeline.Perspective
	Statuses       []domain.OpportunityStatus
	From           domain.Date
	To             domain.Date
	IncludeExpired bool
	// Legacy merges shows, show requests, venue bids and venue offers.
	Legacy bool
}

type TimelineService struct {
	opportunities *OpportunityService
	legacy        *LegacyService
	now           func() time.Time
}

func NewTimelineService(opportunities *OpportunityService, legacy *LegacyService) *TimelineService {
	return &TimelineService{opportunities: opportunities, legacy: legacy, now: time.Now}
}

func (s *TimelineService) View(ctx context.Context, q TimelineQuery) (timeline.View, error) {
	if !q.Perspective.Kind.Valid() || q.Perspective.ID == uuid.Nil {
		return timeline.View{}, errors.Wrap(domain.ErrInvalidInput, "artistId or venueId is required")
	}
	var f OpportunityFilter
	var lf LegacyFilter
	if q.Perspective.Kind == domain.EntityArtist {
		f.ArtistID, lf.ArtistID = &q.Perspective.ID, &q.Perspective.ID
	} else {
		f.VenueID, lf.VenueID = &q.Perspective.ID, &q.Perspective.ID
	}

	var (
		ops []domain.Opportunity
		src timeline.Sources
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ops, err = s.opportunities.List(gctx, f)
		return err
	})
	if q.Legacy {
		g.Go(func() (err error) {
			src, err = s.legacy.Sources(gctx, lf)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return timeline.View{}, err
	}

	statuses := q.Statuses
	if len(statuses) == 0 {
		statuses = ActiveStatuses
		if q.IncludeExpired {
			statuses = append(append([]domain.OpportunityStatus{}, ActiveStatuses...), domain.StatusExpired)
		}
	}
	now := s.now()
	return timeline.Build(timeline.Normalize(ops, src), timeline.Options{
		Perspective: &q.Perspective,
		Predicates: timeline.Predicates{
			Statuses:       statuses,
			From:           q.From,
			To:             q.To,
			IncludeExpired: q.IncludeExpired,
			Today:          domain.DateOf(now),
		},
		Now: now,
	}), nil
}
