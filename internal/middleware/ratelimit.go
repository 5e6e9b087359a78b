package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// loginWindow is the Redis script behind LoginLimit: a fixed window
// counter per client IP.  INCR and EXPIRE run atomically so two
// concurrent attempts cannot both start a window.
var loginWindow = redis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if n == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return n
`)

// LoginLimit caps login attempts per IP to max per window.  A nil
// Redis client disables the limit, matching how the rest of the app
// degrades when Redis is down.
func LoginLimit(rdb *redis.Client, max int, window time.Duration) echo.MiddlewareFunc {
	if rdb == nil || max <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	secs := int(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "login_attempts:" + c.RealIP()
			n, err := loginWindow.Run(c.Request().Context(), rdb, []string{key}, secs).Int()
			if err != nil {
				// fail open when Redis is unreachable
				return next(c)
			}
			if n > max {
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many attempts"})
			}
			return next(c)
		}
	}
}
