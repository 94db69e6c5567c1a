package middleware

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RateLimitConfig controls the fixed-window limiter. State lives in Redis so
// counters are shared across replicas instead of hiding in process globals.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Prefix   string
}

// RateLimit rejects clients that exceed cfg.Requests within cfg.Window.
// Windows are keyed by authenticated user when present, remote address
// otherwise. Redis outages fail open: throttling is protection, not a
// correctness guarantee.
func RateLimit(client *redislib.Client, cfg RateLimitConfig, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Requests <= 0 {
		cfg.Requests = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit:"
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if client == nil {
				next(ctx)
				return
			}

			key := cfg.Prefix + clientKey(ctx)

			reqCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			count, err := client.Incr(reqCtx, key).Result()
			if err != nil {
				logger.Warn("rate limit check failed", zap.Error(err))
				next(ctx)
				return
			}
			if count == 1 {
				if err := client.Expire(reqCtx, key, cfg.Window).Err(); err != nil {
					logger.Warn("rate limit expire failed", zap.Error(err))
				}
			}

			if count > int64(cfg.Requests) {
				ctx.Response.Header.Set("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
				ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
				return
			}

			next(ctx)
		}
	}
}

func clientKey(ctx *fasthttp.RequestCtx) string {
	if userID := string(ctx.Request.Header.Peek("X-User-ID")); userID != "" {
		return "user:" + userID
	}
	if addr := ctx.RemoteAddr(); addr != nil {
		return "addr:" + addr.String()
	}
	return "anonymous"
}
