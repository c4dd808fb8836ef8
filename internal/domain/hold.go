package domain

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type HoldStatus string

const (
	HoldPending   HoldStatus = "PENDING"
	HoldActive    HoldStatus = "ACTIVE"
	HoldExpired   HoldStatus = "EXPIRED"
	HoldCancelled HoldStatus = "CANCELLED"
	HoldDeclined  HoldStatus = "DECLINED"
)

// Blocking reports whether a hold in this status prevents another hold on the
// same document.
func (s HoldStatus) Blocking() bool {
	return s == HoldPending || s == HoldActive
}

// HoldDurations are the hold lengths, in hours, a requester may pick from.
var HoldDurations = []int{24, 48, 72, 168}

func ValidHoldDuration(hours int) bool {
	for _, d := range HoldDurations {
		if d == hours {
			return true
		}
	}
	return false
}

type HoldAction string

const (
	HoldApprove  HoldAction = "approve"
	HoldDecline  HoldAction = "decline"
	HoldCancel   HoldAction = "cancel"
	HoldEndEarly HoldAction = "end"
)

func ParseHoldAction(s string) (HoldAction, error) {
	switch a := HoldAction(strings.ToLower(strings.TrimSpace(s))); a {
	case HoldApprove, HoldDecline, HoldCancel, HoldEndEarly:
		return a, nil
	}
	return "", errors.Wrapf(ErrInvalidInput, "unknown hold action %q", s)
}

// HoldRequest is a time-boxed exclusivity lock on a show or show request,
// requested by one party and approved by the other.
type HoldRequest struct {
	ID            uuid.UUID  `json:"id"`
	ShowID        *uuid.UUID `json:"showId,omitempty"`
	ShowRequestID *uuid.UUID `json:"showRequestId,omitempty"`
	RequestedByID uuid.UUID  `json:"requestedById"`
	// RequestedBy is the side the requester acted for. Only the other side
	// may approve or decline.
	RequestedBy   InitiatedBy `json:"requestedBy,omitempty"`
	RespondedByID *uuid.UUID `json:"respondedById,omitempty"`
	Duration      int        `json:"duration"`
	Reason        string     `json:"reason,omitempty"`
	CustomMessage string     `json:"customMessage,omitempty"`
	Status        HoldStatus `json:"status"`
	RequestedAt   time.Time  `json:"requestedAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	StartsAt      *time.Time `json:"startsAt,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

type NewHoldParams struct {
	ShowID        *uuid.UUID
	ShowRequestID *uuid.UUID
	RequestedByID uuid.UUID
	RequestedBy   InitiatedBy
	Duration      int
	Reason        string
	CustomMessage string
}

func NewHoldRequest(p NewHoldParams, now time.Time) (HoldRequest, error) {
	if (p.ShowID == nil) == (p.ShowRequestID == nil) {
		return HoldRequest{}, errors.Wrap(ErrInvalidInput, "exactly one of showId or showRequestId is required")
	}
	if !ValidHoldDuration(p.Duration) {
		return HoldRequest{}, errors.Wrapf(ErrInvalidInput, "duration must be one of %v hours", HoldDurations)
	}
	return HoldRequest{
		ID:            uuid.New(),
		ShowID:        p.ShowID,
		ShowRequestID: p.ShowRequestID,
		RequestedByID: p.RequestedByID,
		RequestedBy:   p.RequestedBy,
		Duration:      p.Duration,
		Reason:        strings.TrimSpace(p.Reason),
		CustomMessage: strings.TrimSpace(p.CustomMessage),
		Status:        HoldPending,
		RequestedAt:   now,
	}, nil
}

// DocumentID is the show or show request the hold locks.
func (h HoldRequest) DocumentID() uuid.UUID {
	if h.ShowID != nil {
		return *h.ShowID
	}
	return *h.ShowRequestID
}

func (h HoldRequest) Summary() HoldSummary {
	return HoldSummary{ID: h.ID, Status: h.Status, RequestedByID: h.RequestedByID, ExpiresAt: h.ExpiresAt}
}

// Apply runs a response action. The caller must have passed the matching
// permission gate first.
func (h *HoldRequest) Apply(action HoldAction, by uuid.UUID, now time.Time) error {
	switch action {
	case HoldApprove:
		if h.Status != HoldPending {
			return errors.Wrapf(ErrInvalidTransition, "cannot approve a %s hold", h.Status)
		}
		expires := now.Add(time.Duration(h.Duration) * time.Hour)
		h.Status = HoldActive
		h.StartsAt = &now
		h.ExpiresAt = &expires
	case HoldDecline:
		if h.Status != HoldPending {
			return errors.Wrapf(ErrInvalidTransition, "cannot decline a %s hold", h.Status)
		}
		h.Status = HoldDeclined
	case HoldCancel:
		if h.Status != HoldPending {
			return errors.Wrapf(ErrInvalidTransition, "cannot cancel a %s hold", h.Status)
		}
		h.Status = HoldCancelled
	case HoldEndEarly:
		if h.Status != HoldActive {
			return errors.Wrapf(ErrInvalidTransition, "cannot end a %s hold", h.Status)
		}
		h.Status = HoldCancelled
		h.ExpiresAt = &now
	default:
		return errors.Wrapf(ErrInvalidInput, "unknown hold action %q", action)
	}
	h.RespondedByID = &by
	h.RespondedAt = &now
	return nil
}

// Expire moves an active hold whose deadline has passed to EXPIRED.
func (h *HoldRequest) Expire(now time.Time) bool {
	if h.Status != HoldActive || h.ExpiresAt == nil || h.ExpiresAt.After(now) {
		return false
	}
	h.Status = HoldExpired
	return true
}

func (h HoldRequest) Remaining(now time.Time) time.Duration {
	if h.ExpiresAt == nil {
		return 0
	}
	if d := h.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// CanCreateHold allows a new hold when no pending or active hold exists on the
// document and the actor administers the document's artist or venue.
func CanCreateHold(a Actor, doc Parties, existing []HoldRequest) error {
	for _, h := range existing {
		if h.Status.Blocking() {
			return ErrHoldExists
		}
	}
	if !doc.Involves(a) {
		return errors.Wrap(ErrForbidden, "only the artist or venue on this date can request a hold")
	}
	return nil
}

// CanRespondToHold is limited to the non-requesting side while the hold is
// pending. Other members of the requesting artist or venue are refused too.
func CanRespondToHold(a Actor, doc Parties, h HoldRequest) error {
	if h.Status != HoldPending {
		return errors.Wrapf(ErrInvalidTransition, "hold is %s", h.Status)
	}
	if h.RequestedByID == a.UserID {
		return errors.Wrap(ErrForbidden, "requester cannot respond to their own hold")
	}
	side, ok := doc.SideOf(a)
	if !ok {
		return errors.Wrap(ErrForbidden, "not a party to this hold")
	}
	if side == h.RequestedBy {
		return errors.Wrapf(ErrForbidden, "hold was requested by the %s side", strings.ToLower(string(side)))
	}
	if a.IsArtist(doc.ArtistID) && a.IsVenue(doc.VenueID) {
		return errors.Wrap(ErrForbidden, "an actor on both sides cannot approve alone")
	}
	return nil
}

// CanCancelHold is limited to the requester while the hold is pending.
func CanCancelHold(a Actor, h HoldRequest) error {
	if h.Status != HoldPending {
		return errors.Wrapf(ErrInvalidTransition, "hold is %s", h.Status)
	}
	if h.RequestedByID != a.UserID {
		return errors.Wrap(ErrForbidden, "only the requester can cancel a hold")
	}
	return nil
}

// CanEndHold lets either party end an active hold early.
func CanEndHold(a Actor, doc Parties, h HoldRequest) error {
	if h.Status != HoldActive {
		return errors.Wrapf(ErrInvalidTransition, "hold is %s", h.Status)
	}
	if h.RequestedByID != a.UserID && !doc.Involves(a) {
		return errors.Wrap(ErrForbidden, "not a party to this hold")
	}
	return nil
}

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyNormal   Urgency = "normal"
)

func UrgencyFor(remaining time.Duration) Urgency {
	switch {
	case remaining <= 2*time.Hour:
		return UrgencyCritical
	case remaining <= 6*time.Hour:
		return UrgencyWarning
	}
	return UrgencyNormal
}
