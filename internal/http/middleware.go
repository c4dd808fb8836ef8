package http

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/robertarktes/show-booking/internal/idempotency"
	"github.com/robertarktes/show-booking/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelhttp "go.opentelemetry.io/otel/propagation"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	actorKey
)

// DebugUserHeader selects the caller's user id when debug auth is enabled.
const DebugUserHeader = "X-Debug-User"

var nopLogger = observability.NewNopLogger()

func RequestIDMiddleware(next http.Handler) http.Handler {
	return middleware.RequestID(next)
}

func LoggerMiddleware(logger observability.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := middleware.GetReqID(r.Context())
			entry := logger.WithField("request_id", reqID)
			ctx := context.WithValue(r.Context(), loggerKey, entry)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func LoggerFromContext(ctx context.Context) observability.Logger {
	if l, ok := ctx.Value(loggerKey).(observability.Logger); ok {
		return l
	}
	return nopLogger
}

func ActorFromContext(ctx context.Context) domain.Actor {
	a, _ := ctx.Value(actorKey).(domain.Actor)
	return a
}

func WithActor(ctx context.Context, a domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

type ActorResolver interface {
	Actor(ctx context.Context, userID uuid.UUID) (domain.Actor, error)
}

type AuthConfig struct {
	Secret    []byte
	DebugAuth bool
}

// AuthMiddleware identifies the caller from an HS256 bearer token whose
// subject is the user id, then loads the artists and venues they manage.
// The debug header only picks the user id; memberships still come from the
// store.
func AuthMiddleware(cfg AuthConfig, actors ActorResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(r, cfg)
			if err != nil {
				writeError(w, r, err)
				return
			}
			actor, err := actors.Actor(r.Context(), userID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			ctx := WithActor(r.Context(), actor)
			LoggerFromContext(ctx).WithField("user_id", userID).Debug("authenticated")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, cfg AuthConfig) (uuid.UUID, error) {
	if cfg.DebugAuth {
		if raw := r.Header.Get(DebugUserHeader); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return uuid.Nil, errors.Wrap(domain.ErrUnauthorized, "invalid debug user")
			}
			return id, nil
		}
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return uuid.Nil, errors.Wrap(domain.ErrUnauthorized, "missing bearer token")
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, errors.Wrapf(domain.ErrUnauthorized, "invalid token: %v", err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, errors.Wrap(domain.ErrUnauthorized, "token has no subject")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.Wrap(domain.ErrUnauthorized, "token subject is not a user id")
	}
	return id, nil
}

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitMiddleware counts requests per user, or per client IP before
// authentication.
func RateLimitMiddleware(rl Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			if a := ActorFromContext(r.Context()); a.UserID != uuid.Nil {
				key = "user:" + a.UserID.String()
			}
			ok, err := rl.Allow(r.Context(), key)
			if err != nil {
				LoggerFromContext(r.Context()).WithError(err).Warn("rate limiter unavailable")
			}
			if !ok {
				writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*idempotency.Response, error)
	Set(ctx context.Context, key string, resp idempotency.Response) error
}

// IdempotencyMiddleware replays the stored response of a mutating request
// retried with the same Idempotency-Key. Requests without the header pass
// through.
func IdempotencyMiddleware(store IdempotencyStore) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			clientKey := r.Header.Get("Idempotency-Key")
			if clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(clientKey) < 16 || len(clientKey) > 255 {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid Idempotency-Key"})
				return
			}
			key := idempotency.Key(ActorFromContext(r.Context()).UserID, r.Method, r.URL.Path, clientKey)

			existing, err := store.Get(r.Context(), key)
			if err != nil {
				writeError(w, r, errors.Wrap(err, "idempotency lookup"))
				return
			}
			if existing != nil {
				if existing.ContentType != "" {
					w.Header().Set("Content-Type", existing.ContentType)
				}
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(existing.Status)
				_, _ = w.Write(existing.Result)
				return
			}

			var body bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			err = store.Set(r.Context(), key, idempotency.Response{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Result:      body.Bytes(),
			})
			if err != nil {
				LoggerFromContext(r.Context()).WithError(err).Warn("idempotency store")
			}
		})
	}
}

// MetricsMiddleware counts requests by route pattern, status and method.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.RequestsTotal.WithLabelValues(route, strconv.Itoa(status), r.Method).Inc()
	})
}

func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), otelhttp.HeaderCarrier(r.Header))
		tracer := otel.Tracer("http")
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path)
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.url", r.URL.String()),
			attribute.String("request_id", middleware.GetReqID(ctx)),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
