package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	mongoadapter "github.com/robertarktes/show-booking/internal/adapters/mongo"
	"github.com/robertarktes/show-booking/internal/adapters/rabbit"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/config"
	"github.com/robertarktes/show-booking/internal/observability"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventLog interface {
	LogEvent(ctx context.Context, ev booking.Event) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	audit := mongoadapter.NewAuditLogger(mongoClient.Database(cfg.MongoDB), logger)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	consumer, err := rabbit.NewConsumer(conn, rabbit.AuditQueue, "#")
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	logger.Info("audit consumer started")
	for d := range deliveries {
		handle(ctx, audit, logger, d)
	}
	logger.Info("Shutdown audit consumer")
}

// handle drops messages that cannot be decoded and requeues those that
// could not be stored.
func handle(ctx context.Context, audit eventLog, logger observability.Logger, d amqp.Delivery) {
	var ev booking.Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		logger.WithError(err).WithField("message_id", d.MessageId).Warn("undecodable event")
		_ = d.Nack(false, false)
		return
	}
	if err := audit.LogEvent(ctx, ev); err != nil {
		logger.WithError(err).WithField("event_id", ev.ID).Error("failed to store audit log")
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
