package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AggregateOpportunity = "opportunity"
	AggregateHold        = "hold"
)

// Event is written to the outbox in the same transaction as the change it
// describes and relayed to the booking.events exchange with Type as the
// routing key.
type Event struct {
	ID            uuid.UUID   `json:"id"`
	Type          string      `json:"type"`
	AggregateType string      `json:"aggregateType"`
	AggregateID   uuid.UUID   `json:"aggregateId"`
	ActorID       uuid.UUID   `json:"actorId"`
	Reason        string      `json:"reason,omitempty"`
	OccurredAt    time.Time   `json:"occurredAt"`
	Data          interface{} `json:"data,omitempty"`
}

func NewEvent(aggregate string, id uuid.UUID, action string, actor uuid.UUID, now time.Time, data interface{}) Event {
	return Event{
		ID:            uuid.New(),
		Type:          aggregate + "." + strings.ToLower(action),
		AggregateType: aggregate,
		AggregateID:   id,
		ActorID:       actor,
		OccurredAt:    now,
		Data:          data,
	}
}
