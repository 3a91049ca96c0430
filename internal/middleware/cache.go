package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// bodyCapture duplicates the response body while forwarding it to the
// client so a successful leaderboard render can be stored.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// LeaderboardCache caches successful GET leaderboard responses in
// Redis for a short TTL. The aggregation is read-only and tolerates
// read-committed staleness, so briefly serving a cached board is
// acceptable. The key includes the caller id because every caller
// sees a different isMe flag. With no Redis client the middleware is
// a pass-through.
func LeaderboardCache(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || c.Request().Method != http.MethodGet {
				return next(c)
			}
			userID, _ := c.Get("user_id").(string)
			key := strings.Join([]string{"lb", userID, c.Path()}, ":")

			ctx := c.Request().Context()
			if cached, err := rdb.Get(ctx, key).Result(); err == nil {
				return c.JSONBlob(http.StatusOK, []byte(cached))
			}

			cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				_ = rdb.Set(ctx, key, cw.buf.String(), ttl).Err()
			}
			return nil
		}
	}
}
