package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-admin-dashboard/pkg/response"
)

// ipFromCtx prefers the address resolved by RealIP, then Gin's view, then "unknown".
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndRoute limits by client IP, method and route, so edits and
// deletes get separate budgets.
func KeyByIPAndRoute() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:route:" + c.Request.Method + ":" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

type AllowFunc func(*gin.Context) bool // return true to bypass the limit

// Decision is the outcome of counting one request against its window.
type Decision struct {
	Limit     int
	Count     int
	ResetIn   time.Duration
	Exhausted bool
}

func (d Decision) Remaining() int {
	return max(d.Limit-d.Count, 0)
}

// Limiter counts a request against key.
type Limiter interface {
	Take(ctx context.Context, key string) (Decision, error)
}

// atomic INCR, PEXPIRE on first hit
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// FixedWindow is a redis-backed counter that resets window after the first hit on a key.
type FixedWindow struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewFixedWindow(rdb *redis.Client, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{rdb: rdb, limit: limit, window: window}
}

func (f *FixedWindow) Take(ctx context.Context, key string) (Decision, error) {
	raw, err := incrExpireScript.Run(ctx, f.rdb, []string{key}, f.window.Milliseconds()).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %s: %w", key, err)
	}
	d := Decision{Limit: f.limit, Count: toInt(raw)}
	if ttl, err := f.rdb.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
		d.ResetIn = ttl
	}
	d.Exhausted = d.Count > d.Limit
	return d, nil
}

// RateLimit applies a fixed window of max requests per key to the route.
// A nil client disables limiting; redis errors fail open.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return Limit(NewFixedWindow(rdb, max, window), keyFn, allow)
}

// Limit enforces l on every request except OPTIONS and those allow lets through.
func Limit(l Limiter, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if l == nil || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		d, err := l.Take(c.Request.Context(), keyFn(c))
		if err != nil {
			c.Next()
			return
		}

		resetSec := int((d.ResetIn + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining()))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if d.Exhausted {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
