package middleware

import (
	"net/http"
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/config"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/utilities"
)

func ipKey(c *gin.Context) string {
	return "ip: " + c.ClientIP()
}

// userKey falls back to the client address when no user is authenticated.
func userKey(c *gin.Context) string {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		return ipKey(c)
	}
	return "user: " + user.ID.String()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.Header("Retry-After", strconv.Itoa(int(time.Until(info.ResetTime).Seconds())+1))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, utilities.ErrorResponse{
		Error: "Too many requests. Please try again later.",
	})
}

func inMemoryStore(reqPerSec uint) ratelimit.Store {
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: reqPerSec,
	})
}

func redisStore(client redis.UniversalClient, reqPerSec uint) ratelimit.Store {
	return ratelimit.RedisStore(&ratelimit.RedisOptions{
		RedisClient: client,
		Rate:        time.Second,
		Limit:       reqPerSec,
	})
}

func limiter(store ratelimit.Store, key func(*gin.Context) string) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		KeyFunc:      key,
		ErrorHandler: errorHandler,
	})
}

// RateLimiterMiddleware limits every client address to reqPerSec requests per
// second in process memory.
func RateLimiterMiddleware(reqPerSec uint) gin.HandlerFunc {
	return limiter(inMemoryStore(reqPerSec), ipKey)
}

// UserRateLimiterMiddleware limits every authenticated user to reqPerSec
// requests per second in process memory. It must run after RequireAuth.
func UserRateLimiterMiddleware(reqPerSec uint) gin.HandlerFunc {
	return limiter(inMemoryStore(reqPerSec), userKey)
}

// RedisRateLimiterMiddleware shares the per address limit between instances through client.
func RedisRateLimiterMiddleware(client redis.UniversalClient, reqPerSec uint) gin.HandlerFunc {
	return limiter(redisStore(client, reqPerSec), ipKey)
}

// ConfigRateLimitMiddleware limits by client address, in Redis when
// REDIS_ADDR is set and in memory otherwise.
func ConfigRateLimitMiddleware(cfg config.Config) gin.HandlerFunc {
	return configLimiter(cfg, ipKey)
}

// ConfigUserRateLimitMiddleware limits by authenticated user with the same
// backing store choice as ConfigRateLimitMiddleware. It must run after RequireAuth.
func ConfigUserRateLimitMiddleware(cfg config.Config) gin.HandlerFunc {
	return configLimiter(cfg, userKey)
}

func configLimiter(cfg config.Config, key func(*gin.Context) string) gin.HandlerFunc {
	if cfg.RedisAddr == "" {
		return limiter(inMemoryStore(cfg.RateLimitPerSecond), key)
	}

	logx.Infof("rate limiter uses redis at %s", cfg.RedisAddr)
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return limiter(redisStore(client, cfg.RateLimitPerSecond), key)
}
