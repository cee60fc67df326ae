package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// windowCounter increments a request counter for a window key, applying the
// ttl when the key is first created. Production uses Redis; tests substitute
// an in-memory implementation.
type windowCounter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisCounter struct {
	rdb *redis.Client
}

func (r redisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		r.rdb.PExpire(ctx, key, ttl)
	}
	return count, nil
}

// RateLimit returns a middleware enforcing a fixed-window per-IP limit on
// expensive routes. Only a token that validates against the user table is
// exempt; a request carrying an unverifiable Authorization header counts
// against the window like any anonymous request.
func RateLimit(db *gorm.DB, rdb *redis.Client, log *zap.Logger, max int64, window time.Duration) gin.HandlerFunc {
	validate := func(token string) bool {
		_, err := ValidateToken(db, token)
		return err == nil
	}
	return rateLimitWith(redisCounter{rdb: rdb}, validate, log, max, window)
}

func rateLimitWith(counter windowCounter, validate func(string) bool, log *zap.Logger, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" && validate(token) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		windowKey := time.Now().Unix() / int64(window/time.Second)
		key := fmt.Sprintf("cr:rate_limit:%s:%d", ip, windowKey)

		count, err := counter.Incr(ctx, key, window+time.Second)
		if err != nil {
			// Redis down must not take request handling with it.
			c.Next()
			return
		}

		if count > max {
			log.Warn("rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", fmt.Sprintf("%d", int(window/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
