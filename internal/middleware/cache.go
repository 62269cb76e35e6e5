// Package middleware provides the Redis-backed HTTP middleware shared
// by the public routes: a short-TTL response cache and a fixed-window
// rate limiter.  Both degrade to pass-through when Redis is absent.
package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/arenadesk/court-reservation/internal/config"
)

// cachedResponse is the envelope stored in Redis: status plus body and
// the content type, enough to replay a JSON response verbatim.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyCapture tees the response body into a buffer while forwarding it
// to the client, up to a configured limit.
type bodyCapture struct {
	http.ResponseWriter
	status  int
	buf     bytes.Buffer
	limit   int
	clipped bool
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	if w.buf.Len()+len(b) <= w.limit {
		w.buf.Write(b)
	} else {
		w.clipped = true
	}
	return w.ResponseWriter.Write(b)
}

// cacheKey derives a stable key from the request method, path and
// query string, hashed so keys stay short regardless of URL length.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Request().Method + " " + c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// NewResponseCache caches successful GET responses in Redis for the
// configured TTL.  Responses above MaxBodyBytes are served but not
// stored.  Cache hits are marked with an X-Cache header.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if err := json.Unmarshal(raw, &cached); err == nil {
					ct := cached.ContentType
					if ct == "" {
						ct = echo.MIMEApplicationJSON
					}
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(cached.Status, ct, cached.Body)
				}
			}

			w := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = w
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if w.status == http.StatusOK && !w.clipped {
				payload, err := json.Marshal(cachedResponse{
					Status:      w.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        w.buf.Bytes(),
				})
				if err == nil {
					_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}

// clientKey identifies the caller for rate limiting purposes: the
// real IP as echo resolves it, normalized to drop any port.
func clientKey(c echo.Context) string {
	ip := c.RealIP()
	if i := strings.LastIndex(ip, ":"); i > 0 && strings.Count(ip, ":") == 1 {
		ip = ip[:i]
	}
	return ip
}
