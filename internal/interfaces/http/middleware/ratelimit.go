package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/interfaces/http/dto"
)

// LoginRateLimitConfig configures the credential-guessing throttle
type LoginRateLimitConfig struct {
	// Limit is the number of attempts allowed per window per client IP.
	Limit int
	// Window is the fixed counting window.
	Window time.Duration
	Logger *zap.Logger
}

// DefaultLoginRateLimitConfig returns the default throttle: 10 attempts
// per minute per IP.
func DefaultLoginRateLimitConfig() LoginRateLimitConfig {
	return LoginRateLimitConfig{Limit: 10, Window: time.Minute}
}

// LoginRateLimit throttles login attempts per client IP using a fixed
// redis window. When redis is unreachable the request passes; losing
// the throttle is better than losing logins, and the failure is logged.
func LoginRateLimit(client *redis.Client, cfg LoginRateLimitConfig) gin.HandlerFunc {
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := "ratelimit:login:" + c.ClientIP()

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Warn("Login rate limit check failed, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(c.Request.Context(), key, cfg.Window).Err(); err != nil {
				log.Warn("Failed to set rate limit window", zap.Error(err))
			}
		}

		if count > int64(cfg.Limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited,
					"Too many login attempts, try again later", GetRequestID(c)))
			return
		}

		c.Next()
	}
}
