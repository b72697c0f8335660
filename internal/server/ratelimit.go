package server

import (
	"fmt"
	"time"

	"github.com/assetdesk/assetdesk/internal/config"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware enforces a fixed window per client IP, counted in
// Redis so every instance sees the same window. First hit creates the
// key with a TTL; the window resets when the key expires.
func (s *Server) RateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		key := fmt.Sprintf("ratelimit:%s", c.RealIP())

		count, err := s.redis.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not take the API with it.
			s.logger.Error("rate limit unavailable", "err", err)
			return next(c)
		}
		if count == 1 {
			s.redis.Expire(ctx, key, config.RATE_LIMIT_WINDOW_MINUTES*time.Minute)
		}

		if count > config.RATE_LIMIT_MAX_REQUESTS {
			ttl, _ := s.redis.TTL(ctx, key).Result()
			c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			return c.JSON(429, Res{Error: "Too many requests. Please try again later."})
		}

		return next(c)
	}
}
