package booking

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/observability"
	"github.com/samber/lo"
)

type OpportunityService struct {
	repo   OpportunityRepository
	holds  HoldRepository
	logger observability.Logger
	now    func() time.Time
}

func NewOpportunityService(repo OpportunityRepository, holds HoldRepository, logger observability.Logger) *OpportunityService {
	return &OpportunityService{repo: repo, holds: holds, logger: logger.WithField("component", "opportunities"), now: time.Now}
}

// Create proposes a date. The actor must administer the initiating side.
func (s *OpportunityService) Create(ctx context.Context, a domain.Actor, p domain.NewOpportunityParams) (domain.Opportunity, error) {
	initiator := p.ArtistID
	if p.InitiatedBy == domain.InitiatedByVenue {
		initiator = p.VenueID
	}
	if !a.Manages(domain.EntityType(p.InitiatedBy), initiator) {
		return domain.Opportunity{}, errors.Wrapf(domain.ErrForbidden, "not a member of the initiating %s", p.InitiatedBy)
	}
	p.InitiatedByID = a.UserID

	o, err := domain.NewOpportunity(p, s.now())
	if err != nil {
		return domain.Opportunity{}, err
	}
	ev := NewEvent(AggregateOpportunity, o.ID, "created", a.UserID, o.CreatedAt, o)
	if err := s.repo.CreateOpportunity(ctx, o, ev); err != nil {
		return domain.Opportunity{}, errors.Wrap(err, "create opportunity")
	}
	observability.OpportunityTransitions.WithLabelValues(string(o.Status)).Inc()
	s.logger.WithField("opportunity_id", o.ID).Info("opportunity created")
	return o, nil
}

func (s *OpportunityService) List(ctx context.Context, f OpportunityFilter) ([]domain.Opportunity, error) {
	ops, err := s.repo.ListOpportunities(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list opportunities")
	}
	return s.attachHolds(ctx, ops)
}

func (s *OpportunityService) Get(ctx context.Context, id uuid.UUID) (domain.Opportunity, error) {
	o, err := s.repo.GetOpportunity(ctx, id)
	if err != nil {
		return domain.Opportunity{}, err
	}
	ops, err := s.attachHolds(ctx, []domain.Opportunity{o})
	if err != nil {
		return domain.Opportunity{}, err
	}
	return ops[0], nil
}

// UpdateStatus accepts, declines or cancels an opportunity on behalf of a.
func (s *OpportunityService) UpdateStatus(ctx context.Context, a domain.Actor, id uuid.UUID, to domain.OpportunityStatus, reason string) (domain.Opportunity, error) {
	now := s.now()
	o, err := s.repo.UpdateOpportunity(ctx, id, func(o domain.Opportunity) (domain.Opportunity, Event, error) {
		if err := o.AuthorizeTransition(a, to); err != nil {
			return o, Event{}, err
		}
		if err := o.Transition(to, reason, now); err != nil {
			return o, Event{}, err
		}
		ev := NewEvent(AggregateOpportunity, o.ID, string(to), a.UserID, now, o)
		ev.Reason = reason
		return o, ev, nil
	})
	if err != nil {
		return domain.Opportunity{}, err
	}
	observability.OpportunityTransitions.WithLabelValues(string(to)).Inc()
	s.logger.WithField("opportunity_id", id).WithField("status", to).Info("opportunity status changed")
	return o, nil
}

// Delete soft-deletes the opportunity. Only the initiating side may delete.
func (s *OpportunityService) Delete(ctx context.Context, a domain.Actor, id uuid.UUID) error {
	now := s.now()
	_, err := s.repo.UpdateOpportunity(ctx, id, func(o domain.Opportunity) (domain.Opportunity, Event, error) {
		if err := o.AuthorizeDelete(a); err != nil {
			return o, Event{}, err
		}
		o.DeletedAt = &now
		o.UpdatedAt = now
		return o, NewEvent(AggregateOpportunity, o.ID, "deleted", a.UserID, now, nil), nil
	})
	if err != nil {
		return err
	}
	s.logger.WithField("opportunity_id", id).Info("opportunity deleted")
	return nil
}

// ExpireStale moves open and pending opportunities whose date is before
// today to EXPIRED and reports how many were moved.
func (s *OpportunityService) ExpireStale(ctx context.Context) (int, error) {
	now := s.now()
	stale, err := s.repo.ListOpportunities(ctx, OpportunityFilter{
		Statuses: []domain.OpportunityStatus{domain.StatusOpen, domain.StatusPending},
		Before:   domain.DateOf(now),
	})
	if err != nil {
		return 0, errors.Wrap(err, "list stale opportunities")
	}
	expired := 0
	for _, o := range stale {
		_, err := s.repo.UpdateOpportunity(ctx, o.ID, func(o domain.Opportunity) (domain.Opportunity, Event, error) {
			if err := o.Transition(domain.StatusExpired, "", now); err != nil {
				return o, Event{}, err
			}
			return o, NewEvent(AggregateOpportunity, o.ID, string(domain.StatusExpired), uuid.Nil, now, o), nil
		})
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return expired, errors.Wrapf(err, "expire opportunity %s", o.ID)
		}
		expired++
		observability.OpportunityTransitions.WithLabelValues(string(domain.StatusExpired)).Inc()
	}
	return expired, nil
}

// attachHolds fills ActiveHolds from the pending and active holds locking
// each opportunity's source document.
func (s *OpportunityService) attachHolds(ctx context.Context, ops []domain.Opportunity) ([]domain.Opportunity, error) {
	if len(ops) == 0 {
		return ops, nil
	}
	ids := lo.Uniq(lo.FlatMap(ops, func(o domain.Opportunity, _ int) []uuid.UUID {
		return []uuid.UUID{o.ID, o.SourceID}
	}))
	holds, err := s.holds.ListHolds(ctx, HoldFilter{
		DocumentIDs: ids,
		Statuses:    []domain.HoldStatus{domain.HoldPending, domain.HoldActive},
	})
	if err != nil {
		return nil, errors.Wrap(err, "list holds")
	}
	byDoc := lo.GroupBy(holds, func(h domain.HoldRequest) uuid.UUID { return h.DocumentID() })
	for i := range ops {
		docHolds := byDoc[ops[i].SourceID]
		if ops[i].SourceID != ops[i].ID {
			docHolds = append(docHolds, byDoc[ops[i].ID]...)
		}
		ops[i].ActiveHolds = lo.Map(docHolds, func(h domain.HoldRequest, _ int) domain.HoldSummary { return h.Summary() })
	}
	return ops, nil
}
