package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sentinel-server/internal/models"
)

// RateLimit returns a gin middleware enforcing a fixed-window limit per user
// (per client IP for unauthenticated requests) on the named action. The
// counter lives in Redis so the limit survives restarts and is shared across
// replicas. A Redis outage fails open: losing rate limiting is better than
// taking the endpoint down with it.
func RateLimit(redisClient *redis.Client, action string, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("RateLimit").With(zap.String("action", action))

	return func(c *gin.Context) {
		subject := c.ClientIP()
		if userID, ok := UserID(c); ok {
			subject = userID.String()
		}
		key := fmt.Sprintf("ratelimit:%s:%s", action, subject)

		count, err := redisClient.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Warn("Rate limit counter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := redisClient.Expire(c.Request.Context(), key, window).Err(); err != nil {
				log.Warn("Failed to set rate limit window", zap.Error(err))
			}
		}

		if count > int64(limit) {
			log.Warn("Rate limit exceeded", zap.String("subject", subject), zap.Int64("count", count))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.APIError{Message: models.ErrRateLimited.Error()})
			return
		}

		c.Next()
	}
}
