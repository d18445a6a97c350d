package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ventesca/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter is a fixed-window limiter shared by every API instance through
// Redis. The counter key is per prefix, client IP and window. When Redis is
// unreachable requests go through.
func RateLimiter(rdb *redis.Client, prefijo string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ventana := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("ratelimit:%s:%s:%d", prefijo, c.ClientIP(), ventana)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("rate limiter sin redis, se permite la solicitud")
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return RateLimiter(rdb, "login", 20, time.Minute)
}
