// Package client is a typed client for the booking REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/timeline"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is a non-2xx answer. It unwraps to the matching domain error so
// callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

type TimelineParams struct {
	Perspective    timeline.Perspective
	Statuses       []domain.OpportunityStatus
	IncludeExpired bool
	Legacy         bool
}

func (c *Client) Timeline(ctx context.Context, p TimelineParams) (timeline.View, error) {
	q := url.Values{}
	if p.Perspective.Kind == domain.EntityVenue {
		q.Set("venueId", p.Perspective.ID.String())
	} else {
		q.Set("artistId", p.Perspective.ID.String())
	}
	for _, s := range p.Statuses {
		q.Add("status", string(s))
	}
	if p.IncludeExpired {
		q.Set("includeExpired", "true")
	}
	if p.Legacy {
		q.Set("legacy", "true")
	}
	var view timeline.View
	err := c.do(ctx, http.MethodGet, "/api/timeline", q, nil, &view)
	return view, err
}

type OpportunityParams struct {
	ArtistID           uuid.UUID                 `json:"artistId"`
	VenueID            uuid.UUID                 `json:"venueId"`
	Title              string                    `json:"title,omitempty"`
	ProposedDate       domain.Date               `json:"proposedDate"`
	InitiatedBy        domain.InitiatedBy        `json:"initiatedBy"`
	Open               bool                      `json:"open,omitempty"`
	Message            string                    `json:"message,omitempty"`
	FinancialOffer     domain.FinancialOffer     `json:"financialOffer"`
	PerformanceDetails domain.PerformanceDetails `json:"performanceDetails"`
	VenueDetails       domain.VenueDetails       `json:"venueDetails"`
	AdditionalValue    domain.AdditionalValue    `json:"additionalValue"`
}

func (c *Client) CreateOpportunity(ctx context.Context, p OpportunityParams) (domain.Opportunity, error) {
	var o domain.Opportunity
	err := c.do(ctx, http.MethodPost, "/api/booking-opportunities", nil, p, &o)
	return o, err
}

func (c *Client) Opportunity(ctx context.Context, id uuid.UUID) (domain.Opportunity, error) {
	var o domain.Opportunity
	err := c.do(ctx, http.MethodGet, "/api/booking-opportunities/"+id.String(), nil, nil, &o)
	return o, err
}

func (c *Client) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.OpportunityStatus, reason string) (domain.Opportunity, error) {
	var o domain.Opportunity
	body := map[string]string{"status": string(to), "reason": reason}
	err := c.do(ctx, http.MethodPut, "/api/booking-opportunities/"+id.String(), nil, body, &o)
	return o, err
}

func (c *Client) DeleteOpportunity(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/booking-opportunities/"+id.String(), nil, nil, nil)
}

type HoldParams struct {
	ShowID        *uuid.UUID `json:"showId,omitempty"`
	ShowRequestID *uuid.UUID `json:"showRequestId,omitempty"`
	Duration      int        `json:"duration"`
	Reason        string     `json:"reason,omitempty"`
	CustomMessage string     `json:"customMessage,omitempty"`
}

func (c *Client) CreateHold(ctx context.Context, p HoldParams) (domain.HoldRequest, error) {
	var h domain.HoldRequest
	err := c.do(ctx, http.MethodPost, "/api/hold-requests", nil, p, &h)
	return h, err
}

// Holds lists holds on a show or show request; statuses narrow the result.
func (c *Client) Holds(ctx context.Context, documentParam string, documentID uuid.UUID, statuses ...domain.HoldStatus) ([]domain.HoldRequest, error) {
	q := url.Values{}
	q.Set(documentParam, documentID.String())
	for _, s := range statuses {
		q.Add("status", string(s))
	}
	var out []domain.HoldRequest
	err := c.do(ctx, http.MethodGet, "/api/hold-requests", q, nil, &out)
	return out, err
}

func (c *Client) RespondHold(ctx context.Context, id uuid.UUID, action domain.HoldAction) (domain.HoldRequest, error) {
	var h domain.HoldRequest
	err := c.do(ctx, http.MethodPut, "/api/hold-requests/"+id.String(), nil, map[string]string{"action": string(action)}, &h)
	return h, err
}

func (c *Client) ToggleFavorite(ctx context.Context, key domain.FavoriteKey) (bool, error) {
	var out struct {
		Favorited bool `json:"favorited"`
	}
	body := map[string]string{"entityType": string(key.EntityType), "entityId": key.EntityID.String()}
	err := c.do(ctx, http.MethodPost, "/api/favorites/toggle", nil, body, &out)
	return out.Favorited, err
}

func (c *Client) Favorites(ctx context.Context, t domain.EntityType) ([]domain.Favorite, error) {
	q := url.Values{}
	if t != "" {
		q.Set("entityType", string(t))
	}
	var out []domain.Favorite
	err := c.do(ctx, http.MethodGet, "/api/favorites", q, nil, &out)
	return out, err
}

func (c *Client) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := c.do(ctx, http.MethodGet, "/api/messages/conversations", nil, nil, &out)
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, recipientID uuid.UUID, content string) (domain.Conversation, error) {
	var out domain.Conversation
	body := map[string]string{"recipientId": recipientID.String(), "content": content}
	err := c.do(ctx, http.MethodPost, "/api/messages/conversations", nil, body, &out)
	return out, err
}
