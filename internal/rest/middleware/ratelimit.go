package middleware

import (
	"github.com/flexprice/mgmt/internal/config"
	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware rejects requests above the configured rate with 429.
// It must run after ErrorHandler so the rejection is rendered.
func RateLimitMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	rl := cfg.Server.RateLimit
	if rl.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), rl.Burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many requests, please retry later").
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
