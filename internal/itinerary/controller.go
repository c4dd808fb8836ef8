package itinerary

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/timeline"
)

// Backend is the server the controller reads from and mutates.
type Backend interface {
	Entries(ctx context.Context, c Context) ([]timeline.Entry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to domain.OpportunityStatus, reason string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Controller owns a State and the last fetched entries. Mutations follow the
// same shape: flag the entity, show the expected result, call the backend,
// refetch, and clear the optimistic markers whether the call worked or not.
type Controller struct {
	backend Backend

	mu      sync.Mutex
	state   State
	entries []timeline.Entry
}

func NewController(b Backend, c Context) *Controller {
	return &Controller{backend: b, state: NewState(c)}
}

func (c *Controller) Dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, a)
	return c.state
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible returns the last fetched entries with the optimistic view applied.
func (c *Controller) Visible() []timeline.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Visible(c.entries, c.state)
}

func (c *Controller) Refresh(ctx context.Context) error {
	target := c.State().Context
	entries, err := c.backend.Entries(ctx, target)
	if err != nil {
		return errors.Wrap(err, "fetch itinerary")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// a context switch while fetching makes the result stale
	if c.state.Context == target {
		c.entries = entries
	}
	return nil
}

// SwitchContext moves to another artist or venue and loads its entries.
func (c *Controller) SwitchContext(ctx context.Context, to Context) error {
	c.Dispatch(SetContext{Context: to})
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Delete flags the row as deleting for the round trip. The row stays visible
// until the refetch drops it.
func (c *Controller) Delete(ctx context.Context, id uuid.UUID) error {
	c.Dispatch(SetDeleting{ID: id, Deleting: true})
	defer c.Dispatch(SetDeleting{ID: id, Deleting: false})

	if err := c.backend.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete opportunity")
	}
	return c.Refresh(ctx)
}

// Respond accepts, declines or cancels an opportunity.
func (c *Controller) Respond(ctx context.Context, id uuid.UUID, to domain.OpportunityStatus, reason string) error {
	c.Dispatch(SetBidAction{ID: id, Active: true})
	c.Dispatch(OverrideBidStatus{ID: id, Status: to})
	defer c.Dispatch(SetBidAction{ID: id, Active: false})
	defer c.Dispatch(ClearBidStatus{ID: id})

	if err := c.backend.UpdateStatus(ctx, id, to, reason); err != nil {
		return errors.Wrapf(err, "set status %s", to)
	}
	return c.Refresh(ctx)
}
