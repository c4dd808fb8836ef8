package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_requests_total",
			Help: "Total number of requests",
		},
		[]string{"route", "code", "method"},
	)

	DBTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_db_tx_seconds",
			Help:    "Duration of DB transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	OutboxLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "booking_outbox_lag_seconds",
			Help: "Age of the oldest outbox record published in the last batch",
		},
	)

	RabbitPublishRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_rabbit_publish_retries_total",
			Help: "Total rabbit publish retries",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)

	OpportunityTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_opportunity_transitions_total",
			Help: "Booking opportunity status changes by target status",
		},
		[]string{"status"},
	)

	HoldOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_hold_outcomes_total",
			Help: "Hold requests by resulting status",
		},
		[]string{"status"},
	)

	FavoritesCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_favorites_cache_lookups_total",
			Help: "Favorites cache lookups by result",
		},
		[]string{"result"},
	)
)
