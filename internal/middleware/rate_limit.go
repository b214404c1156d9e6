package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Counter compteur à fenêtre fixe (cache.Cache en production)
type Counter interface {
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error)
	RateLimitTTL(ctx context.Context, key string) time.Duration
}

type RateLimiter struct {
	counter Counter
	window  time.Duration
	log     *logrus.Logger
}

// NewRateLimiter counter nil = pas de limitation (mode mémoire sans Redis)
func NewRateLimiter(counter Counter, window time.Duration, log *logrus.Logger) *RateLimiter {
	return &RateLimiter{counter: counter, window: window, log: log}
}

// CartRateLimit limite les mutations panier par utilisateur (anti-spam)
func (rl *RateLimiter) CartRateLimit(max int) gin.HandlerFunc {
	return rl.limit(max, "Trop d'opérations sur le panier. Ralentissez un peu", func(c *gin.Context) string {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			return ""
		}
		return "cart_ops:" + userID
	})
}

// SearchRateLimit limite les recherches par IP
func (rl *RateLimiter) SearchRateLimit(max int) gin.HandlerFunc {
	return rl.limit(max, "Trop de recherches. Réessayez dans 1 minute", func(c *gin.Context) string {
		return "search_requests:" + c.ClientIP()
	})
}

func (rl *RateLimiter) limit(max int, msg string, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.counter == nil || max <= 0 {
			c.Next()
			return
		}
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		requests, err := rl.counter.IncrementRateLimit(ctx, key, rl.window)
		if err != nil {
			// Redis indisponible : on laisse passer
			rl.log.WithError(err).Warn("⚠️ Rate limit indisponible")
			c.Next()
			return
		}

		remaining := int64(max) - requests
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if requests > int64(max) {
			retryAfter := int(rl.counter.RateLimitTTL(ctx, key).Seconds())
			if retryAfter <= 0 {
				retryAfter = int(rl.window.Seconds())
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       msg,
				"code":        "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}
		c.Next()
	}
}
