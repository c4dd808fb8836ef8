package mongo

import (
	"context"
	"time"

	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditLogger keeps every booking event relayed through the outbox so
// decline and cancel reasons can be looked up later.
type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID            string      `bson:"_id"`
	Type          string      `bson:"type"`
	AggregateType string      `bson:"aggregate_type"`
	AggregateID   string      `bson:"aggregate_id"`
	ActorID       string      `bson:"actor_id"`
	Reason        string      `bson:"reason,omitempty"`
	OccurredAt    time.Time   `bson:"occurred_at"`
	RecordedAt    time.Time   `bson:"recorded_at"`
	Data          interface{} `bson:"data,omitempty"`
}

// LogEvent stores ev. A redelivered event is ignored.
func (a *AuditLogger) LogEvent(ctx context.Context, ev booking.Event) error {
	log := AuditLog{
		ID:            ev.ID.String(),
		Type:          ev.Type,
		AggregateType: ev.AggregateType,
		AggregateID:   ev.AggregateID.String(),
		ActorID:       ev.ActorID.String(),
		Reason:        ev.Reason,
		OccurredAt:    ev.OccurredAt,
		RecordedAt:    time.Now(),
		Data:          ev.Data,
	}
	_, err := a.coll.InsertOne(ctx, log)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		a.logger.WithField("event_id", log.ID).Error("failed to insert audit log", err)
		return err
	}
	return nil
}

// History returns the audit trail of one aggregate, oldest first.
func (a *AuditLogger) History(ctx context.Context, aggregateType, aggregateID string) ([]AuditLog, error) {
	cur, err := a.coll.Find(ctx,
		bson.M{"aggregate_type": aggregateType, "aggregate_id": aggregateID},
		options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var logs []AuditLog
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
