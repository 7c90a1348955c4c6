package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. With a redis client the
// counters are shared across instances, otherwise they live in memory.
func RateLimiter(perMinute int, client *redis.Client) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 100
	}
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  int64(perMinute),
	}

	store := limiter.Store(memory.NewStore())
	if client != nil {
		redisStore, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "ticketing:ratelimit"})
		if err != nil {
			logrus.WithError(err).Warn("⚠️ redis rate-limit store unavailable, falling back to memory")
		} else {
			store = redisStore
		}
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}
