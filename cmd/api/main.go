package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/show-booking/internal/adapters/crdb"
	mongoadapter "github.com/robertarktes/show-booking/internal/adapters/mongo"
	redisadapter "github.com/robertarktes/show-booking/internal/adapters/redis"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/config"
	httphandler "github.com/robertarktes/show-booking/internal/http"
	"github.com/robertarktes/show-booking/internal/idempotency"
	"github.com/robertarktes/show-booking/internal/observability"
	"github.com/robertarktes/show-booking/internal/rateLimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg.OTLPEndpoint, "booking-api")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger(cfg.LogLevel)

	pool, err := pgxpool.New(context.Background(), cfg.CRDBDSN)
	if err != nil {
		log.Fatalf("failed to connect to crdb: %v", err)
	}
	defer pool.Close()
	repo := crdb.NewRepository(pool)
	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatalf("failed to migrate crdb: %v", err)
	}

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	embedRepo := mongoadapter.NewEmbedRepository(mongoClient.Database(cfg.MongoDB), logger)
	if err := embedRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("failed to create mongo indexes: %v", err)
	}

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	redisCache := redisadapter.NewCache(redisClient)
	idemp := idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
	rl := rateLimit.NewRateLimiter(redisCache, cfg.RateLimitPerMinute, time.Minute)

	// The API only writes to the outbox; the connection is held for readiness.
	rabbitConn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer rabbitConn.Close()

	opportunities := booking.NewOpportunityService(repo, repo, logger)
	legacy := booking.NewLegacyService(repo)

	handlers := httphandler.NewHandlers(httphandler.Services{
		Opportunities: opportunities,
		Holds:         booking.NewHoldService(repo, repo, redisCache, cfg.HoldLockTTL, logger),
		Timeline:      booking.NewTimelineService(opportunities, legacy),
		Favorites:     booking.NewFavoriteService(repo, redisCache, cfg.FavoritesCacheTTL, logger),
		Messages:      booking.NewMessageService(repo),
		Embeds:        booking.NewEmbedService(embedRepo),
		Legacy:        legacy,
		Deps: map[string]httphandler.Pinger{
			"crdb": repo,
			"redis": pingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
			"mongo": pingFunc(func(ctx context.Context) error {
				return mongoClient.Ping(ctx, nil)
			}),
			"rabbitmq": pingFunc(func(context.Context) error {
				if rabbitConn.IsClosed() {
					return errors.New("connection closed")
				}
				return nil
			}),
		},
	})

	r := httphandler.SetupRouter(handlers, httphandler.RouterConfig{
		Logger:      logger,
		Auth:        httphandler.AuthConfig{Secret: []byte(cfg.JWTSecret), DebugAuth: cfg.DebugAuth},
		Actors:      booking.NewDirectory(repo),
		Limiter:     rl,
		Idempotency: idemp,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server shutdown")
	}
	logger.Info("Server exiting")
}
