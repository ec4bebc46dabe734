package middleware

import (
  "fmt"
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  libredis "github.com/redis/go-redis/v9"
  "github.com/ulule/limiter/v3"
  "github.com/ulule/limiter/v3/drivers/store/memory"
  sredis "github.com/ulule/limiter/v3/drivers/store/redis"

  "github.com/uofg-market/marketplace-backend/internal/logger"
)

type RateLimitMiddleware struct {
  log   *logger.Logger
  store limiter.Store
}

// NewRateLimitMiddleware builds the shared limiter store. When a redis
// client is provided the counters are shared across instances; without
// one an in-memory store keeps single-instance deployments working.
func NewRateLimitMiddleware(log *logger.Logger, redisClient *libredis.Client) (*RateLimitMiddleware, error) {
  middlewareLogger := log.With("Middleware", "RateLimitMiddleware")

  if redisClient == nil {
    middlewareLogger.Warn("No redis client provided, falling back to in-memory rate limit store")
    return &RateLimitMiddleware{log: middlewareLogger, store: memory.NewStore()}, nil
  }

  store, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
    Prefix:   "marketplace:ratelimit",
    MaxRetry: 3,
  })
  if err != nil {
    middlewareLogger.Error("Failed to create redis rate limit store", "error", err)
    return nil, err
  }
  middlewareLogger.Info("Redis rate limit store is up and running :)")
  return &RateLimitMiddleware{log: middlewareLogger, store: store}, nil
}

// Limit caps requests per client IP for the routes it is mounted on.
func (rl *RateLimitMiddleware) Limit(limit int64, period time.Duration) gin.HandlerFunc {
  if limit <= 0 {
    limit = 10
  }
  if period <= 0 {
    period = 1 * time.Minute
  }
  instance := limiter.New(rl.store, limiter.Rate{Period: period, Limit: limit})

  return func(c *gin.Context) {
    // Counters are per route AND per IP; the store is shared across
    // Limit instances, so a bare IP key would pool every route's
    // budget into one counter.
    lctx, err := instance.Get(c.Request.Context(), c.FullPath()+":"+c.ClientIP())
    if err != nil {
      rl.log.Error("Failed to check rate limit", "error", err)
      c.AbortWithStatus(http.StatusInternalServerError)
      return
    }

    c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", lctx.Limit))
    c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", lctx.Remaining))
    c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", lctx.Reset))

    if lctx.Reached {
      c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
        "error": "Too many requests, please try again later",
      })
      return
    }
    c.Next()
  }
}
