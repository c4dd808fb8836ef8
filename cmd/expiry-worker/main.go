package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/show-booking/internal/adapters/crdb"
	redisadapter "github.com/robertarktes/show-booking/internal/adapters/redis"
	"github.com/robertarktes/show-booking/internal/booking"
	"github.com/robertarktes/show-booking/internal/config"
	"github.com/robertarktes/show-booking/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg.OTLPEndpoint, "booking-expiry-worker")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger(cfg.LogLevel)

	pool, err := pgxpool.New(context.Background(), cfg.CRDBDSN)
	if err != nil {
		log.Fatalf("failed to connect to crdb: %v", err)
	}
	defer pool.Close()
	repo := crdb.NewRepository(pool)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	redisCache := redisadapter.NewCache(redisClient)

	worker := NewExpiryWorker(
		booking.NewHoldService(repo, repo, redisCache, cfg.HoldLockTTL, logger),
		booking.NewOpportunityService(repo, repo, logger),
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx, cfg.HoldSweepInterval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown expiry worker")
}

type holdSweeper interface {
	ExpireDue(ctx context.Context) (int, error)
}

type opportunitySweeper interface {
	ExpireStale(ctx context.Context) (int, error)
}

// ExpiryWorker expires active holds past their deadline and opportunities
// whose date has gone by without a decision.
type ExpiryWorker struct {
	holds         holdSweeper
	opportunities opportunitySweeper
	logger        observability.Logger
}

func NewExpiryWorker(holds holdSweeper, opportunities opportunitySweeper, logger observability.Logger) *ExpiryWorker {
	return &ExpiryWorker{holds: holds, opportunities: opportunities, logger: logger}
}

func (w *ExpiryWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep leaves anything that failed for the next tick.
func (w *ExpiryWorker) sweep(ctx context.Context) {
	if _, err := w.holds.ExpireDue(ctx); err != nil {
		w.logger.WithError(err).Error("failed to expire holds")
	}
	n, err := w.opportunities.ExpireStale(ctx)
	if err != nil {
		w.logger.WithError(err).Error("failed to expire opportunities")
	}
	if n > 0 {
		w.logger.WithField("count", n).Info("expired opportunities")
	}
}
