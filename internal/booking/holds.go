package booking

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/observability"
)

const DefaultHoldLockTTL = 10 * time.Second

type HoldService struct {
	holds   HoldRepository
	docs    DocumentRepository
	lock    HoldLocker
	lockTTL time.Duration
	logger  observability.Logger
	now     func() time.Time
}

func NewHoldService(holds HoldRepository, docs DocumentRepository, lock HoldLocker, lockTTL time.Duration, logger observability.Logger) *HoldService {
	if lockTTL <= 0 {
		lockTTL = DefaultHoldLockTTL
	}
	return &HoldService{
		holds:   holds,
		docs:    docs,
		lock:    lock,
		lockTTL: lockTTL,
		logger:  logger.WithField("component", "holds"),
		now:     time.Now,
	}
}

// Create requests a hold on a show or show request. Creation is serialised
// per document by a short-lived lock; the repository's unique index is the
// final guard.
func (s *HoldService) Create(ctx context.Context, a domain.Actor, p domain.NewHoldParams) (domain.HoldRequest, error) {
	doc, err := s.docs.HoldDocument(ctx, p.ShowID, p.ShowRequestID)
	if err != nil {
		return domain.HoldRequest{}, err
	}
	p.RequestedByID = a.UserID
	p.RequestedBy, _ = doc.Parties.SideOf(a)
	h, err := domain.NewHoldRequest(p, s.now())
	if err != nil {
		return domain.HoldRequest{}, err
	}

	owner := a.UserID.String() + ":" + uuid.NewString()
	ok, err := s.lock.AcquireHoldLock(ctx, doc.ID, owner, s.lockTTL)
	if err != nil {
		return domain.HoldRequest{}, errors.Wrap(err, "acquire hold lock")
	}
	if !ok {
		return domain.HoldRequest{}, domain.ErrHoldExists
	}
	defer func() {
		if err := s.lock.ReleaseHoldLock(ctx, doc.ID, owner); err != nil {
			s.logger.WithError(err).Warn("release hold lock")
		}
	}()

	existing, err := s.holds.ListHolds(ctx, HoldFilter{
		DocumentIDs: []uuid.UUID{doc.ID},
		Statuses:    []domain.HoldStatus{domain.HoldPending, domain.HoldActive},
	})
	if err != nil {
		return domain.HoldRequest{}, errors.Wrap(err, "list holds")
	}
	if err := domain.CanCreateHold(a, doc.Parties, existing); err != nil {
		return domain.HoldRequest{}, err
	}

	ev := NewEvent(AggregateHold, h.ID, "requested", a.UserID, h.RequestedAt, h)
	ev.Reason = h.Reason
	if err := s.holds.CreateHold(ctx, h, ev); err != nil {
		return domain.HoldRequest{}, err
	}
	observability.HoldOutcomes.WithLabelValues(string(h.Status)).Inc()
	s.logger.WithField("hold_id", h.ID).WithField("document_id", doc.ID).Info("hold requested")
	return h, nil
}

func (s *HoldService) List(ctx context.Context, f HoldFilter) ([]domain.HoldRequest, error) {
	return s.holds.ListHolds(ctx, f)
}

// Respond applies approve, decline, cancel or end to a hold on behalf of a.
func (s *HoldService) Respond(ctx context.Context, a domain.Actor, id uuid.UUID, action domain.HoldAction) (domain.HoldRequest, error) {
	current, err := s.holds.GetHold(ctx, id)
	if err != nil {
		return domain.HoldRequest{}, err
	}
	doc, err := s.docs.HoldDocument(ctx, current.ShowID, current.ShowRequestID)
	if err != nil {
		return domain.HoldRequest{}, err
	}

	now := s.now()
	h, err := s.holds.UpdateHold(ctx, id, func(h domain.HoldRequest) (HoldUpdate, error) {
		var gate error
		switch action {
		case domain.HoldApprove, domain.HoldDecline:
			gate = domain.CanRespondToHold(a, doc.Parties, h)
		case domain.HoldCancel:
			gate = domain.CanCancelHold(a, h)
		case domain.HoldEndEarly:
			gate = domain.CanEndHold(a, doc.Parties, h)
		default:
			gate = errors.Wrapf(domain.ErrInvalidInput, "unknown hold action %q", action)
		}
		if gate != nil {
			return HoldUpdate{}, gate
		}
		if err := h.Apply(action, a.UserID, now); err != nil {
			return HoldUpdate{}, err
		}

		u := HoldUpdate{Hold: h, Event: NewEvent(AggregateHold, h.ID, holdEventName(action), a.UserID, now, h)}
		switch action {
		case domain.HoldApprove:
			u.Competing = &CompetingState{Document: doc, State: domain.HoldStateFrozen}
		case domain.HoldEndEarly:
			u.Competing = &CompetingState{Document: doc, State: domain.HoldStateUnfrozen}
		}
		return u, nil
	})
	if err != nil {
		return domain.HoldRequest{}, err
	}
	observability.HoldOutcomes.WithLabelValues(string(h.Status)).Inc()
	s.logger.WithField("hold_id", id).WithField("action", action).Info("hold updated")
	return h, nil
}

// ExpireDue moves every active hold past its deadline to EXPIRED and
// unfreezes the opportunities it was blocking.
func (s *HoldService) ExpireDue(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.holds.DueHolds(ctx, now)
	if err != nil {
		return 0, errors.Wrap(err, "list due holds")
	}

	expired := 0
	for _, d := range due {
		doc, err := s.docs.HoldDocument(ctx, d.ShowID, d.ShowRequestID)
		if err != nil {
			s.logger.WithError(err).WithField("hold_id", d.ID).Error("resolve hold document")
			continue
		}
		_, err = s.holds.UpdateHold(ctx, d.ID, func(h domain.HoldRequest) (HoldUpdate, error) {
			if !h.Expire(now) {
				return HoldUpdate{}, errors.Wrapf(domain.ErrInvalidTransition, "hold is %s", h.Status)
			}
			return HoldUpdate{
				Hold:      h,
				Event:     NewEvent(AggregateHold, h.ID, "expired", uuid.Nil, now, h),
				Competing: &CompetingState{Document: doc, State: domain.HoldStateUnfrozen},
			}, nil
		})
		// ended early or already swept by another worker
		if errors.Is(err, domain.ErrInvalidTransition) {
			continue
		}
		if err != nil {
			return expired, errors.Wrapf(err, "expire hold %s", d.ID)
		}
		expired++
		observability.HoldOutcomes.WithLabelValues(string(domain.HoldExpired)).Inc()
	}
	if expired > 0 {
		s.logger.WithField("count", expired).Info("expired holds")
	}
	return expired, nil
}

func holdEventName(a domain.HoldAction) string {
	switch a {
	case domain.HoldApprove:
		return "approved"
	case domain.HoldDecline:
		return "declined"
	case domain.HoldCancel:
		return "cancelled"
	}
	return "ended"
}
