package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/observability"
)

type RouterConfig struct {
	Logger      observability.Logger
	Auth        AuthConfig
	Actors      ActorResolver
	Limiter     Limiter
	Idempotency IdempotencyStore
}

func SetupRouter(h *Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(cfg.Logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Auth, cfg.Actors))
		if cfg.Limiter != nil {
			r.Use(RateLimitMiddleware(cfg.Limiter))
		}
		if cfg.Idempotency != nil {
			r.Use(IdempotencyMiddleware(cfg.Idempotency))
		}

		r.Route("/booking-opportunities", func(r chi.Router) {
			r.Get("/", h.ListOpportunities)
			r.Post("/", h.CreateOpportunity)
			r.Get("/{id}", h.GetOpportunity)
			r.Put("/{id}", h.UpdateOpportunity)
			r.Delete("/{id}", h.DeleteOpportunity)
		})

		r.Route("/hold-requests", func(r chi.Router) {
			r.Get("/", h.ListHolds)
			r.Post("/", h.CreateHold)
			r.Put("/{id}", h.RespondHold)
		})

		r.Get("/timeline", h.Timeline)

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.ListFavorites)
			r.Post("/", h.AddFavorite)
			r.Delete("/", h.RemoveFavorite)
			r.Get("/check", h.CheckFavorite)
			r.Post("/toggle", h.ToggleFavorite)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/conversations", h.ListConversations)
			r.Post("/conversations", h.StartConversation)
			r.Get("/{conversationId}", h.ListMessages)
			r.Post("/{conversationId}", h.SendMessage)
		})

		r.Get("/shows", h.ListShows)
		r.Get("/show-requests", h.ListShowRequests)
		r.Get("/artists/{id}/offers", h.ListArtistOffers)

		for prefix, t := range map[string]domain.EntityType{
			"/artists/{id}/embeds": domain.EntityArtist,
			"/venues/{id}/embeds":  domain.EntityVenue,
		} {
			e := embedRoutes{h: h, t: t}
			r.Get(prefix, e.list)
			r.Post(prefix, e.create)
			r.Put(prefix+"/{embedId}", e.update)
			r.Delete(prefix+"/{embedId}", e.delete)
		}
	})

	return r
}
