package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/benvon/clinic-edge/internal/apierror"
	logpkg "github.com/benvon/clinic-edge/internal/logger"
	"github.com/benvon/clinic-edge/internal/request"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const (
	rateLimitPrefix = "clinic_edge_ratelimit"
	// RateLimitMessage is the message returned once a caller exhausts its quota.
	RateLimitMessage = "Too Many Requests"
)

// RedisRateLimiter wraps the Redis client backing the rate-limit store.
type RedisRateLimiter struct {
	client *redis.Client
}

// NewRedisRateLimiter connects to redisURL and verifies the connection.
func NewRedisRateLimiter(redisURL string) (*RedisRateLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateLimiter{client: client}, nil
}

// Close closes the Redis connection
func (r *RedisRateLimiter) Close() error {
	return r.client.Close()
}

// Ping checks if Redis is reachable
func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NewRateLimitStore returns a Redis-backed store when rdb is non-nil and an
// in-process memory store otherwise.
func NewRateLimitStore(rdb *RedisRateLimiter) (limiter.Store, error) {
	if rdb == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), nil
	}
	store, err := redisstore.NewStoreWithOptions(rdb.client, limiter.StoreOptions{Prefix: rateLimitPrefix})
	if err != nil {
		return nil, fmt.Errorf("create redis rate limit store: %w", err)
	}
	return store, nil
}

// RateLimit limits requests per client IP using a ulule rate string such as
// "100-M". Exhausted callers get a 429; store failures go to the responder as
// unrecognized errors.
func RateLimit(store limiter.Store, formatted string, rs *apierror.Responder, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", formatted, err)
	}

	instance := limiter.New(store, rate)
	mw := stdlibmw.NewMiddleware(instance,
		stdlibmw.WithKeyGetter(request.ClientIP),
		stdlibmw.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			rs.Respond(w, r, apierror.TooManyRequests(RateLimitMessage))
		}),
		stdlibmw.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("rate_limit_store_error",
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("error", logpkg.SanitizeError(err)),
			)
			rs.Respond(w, r, fmt.Errorf("rate limit store: %w", err))
		}),
	)
	return mw.Handler, nil
}
