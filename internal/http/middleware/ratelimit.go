// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a lightweight, in-memory, fixed-window rate
// limiter with per-identity counters and opportunistic garbage
// collection. It is designed for simplicity, low overhead, and
// predictable behavior in a single-process deployment.
//
// Features:
//   - Per-key fixed windows: a counter and a window-end timestamp, reset
//     when the window lapses
//   - Pluggable identity function (API key or client IP)
//   - A defined Info() surface so handlers can advertise the remaining
//     quota and reset horizon in X-RateLimit-* headers
//   - Best-effort cleanup of idle counters to bound memory
//
// Notes:
//   - This limiter is process-local. The quota is approximate abuse
//     throttling, not exact enforcement; a horizontally scaled deployment
//     that needs global limits should use a distributed limiter instead.
//   - Clients that cannot be identified all share the literal "unknown"
//     bucket: a fail-safe, not a precision guarantee.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// keyFunc selects the identity used to key a rate-limit window.
//
// Implementations should return a stable string for the duration of a
// request (e.g., "key:<api-key>" or "ip:<addr>"); an empty result maps to
// the shared "unknown" bucket.
type keyFunc func(*gin.Context) string

// KeyByClientIP returns a keyFunc identifying callers by client IP.
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		if ip := c.ClientIP(); ip != "" {
			return "ip:" + ip
		}
		return "unknown"
	}
}

// KeyByAPIKeyOrIP returns a keyFunc that prefers the X-API-Key header and
// falls back to the client IP. Key and IP namespaces are prefixed to
// avoid collisions.
func KeyByAPIKeyOrIP() keyFunc {
	return func(c *gin.Context) string {
		if k := c.GetHeader(HeaderAPIKey); k != "" {
			return "key:" + k
		}
		if ip := c.ClientIP(); ip != "" {
			return "ip:" + ip
		}
		return "unknown"
	}
}

// window is a single fixed-window counter.
type window struct {
	count int
	end   time.Time
}

// RateLimitInfo describes the state of one key's current window.
type RateLimitInfo struct {
	Remaining int // requests left before the limit trips
	ResetIn   int // whole seconds until the window resets
}

// RateLimiter implements per-key fixed-window limiting.
//
// Windows are created on demand and stored in an internal map guarded by
// a mutex. Idle windows are evicted via opportunistic cleanup during
// lookups to keep memory usage bounded.
//
// This type is safe for concurrent use.
type RateLimiter struct {
	max      int
	period   time.Duration
	keyFn    keyFunc
	mu       sync.Mutex
	windows  map[string]*window
	cleanupN uint64

	// now is a clock seam for tests.
	now func() time.Time
}

// NewRateLimiter constructs a RateLimiter allowing max requests per
// period, keyed by keyFn.
//
//   - max:    requests allowed per window; values <= 0 are coerced to 1.
//   - period: window length; values <= 0 are coerced to one minute.
//   - keyFn:  function that maps a request to a window identity.
func NewRateLimiter(max int, period time.Duration, keyFn keyFunc) *RateLimiter {
	if max <= 0 {
		max = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	return &RateLimiter{
		max:     max,
		period:  period,
		keyFn:   keyFn,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// window's quota. Counting is increment-then-compare, so a denied request
// still consumes nothing further.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Opportunistic cleanup: drop lapsed windows after a threshold of
	// lookups so abandoned keys do not accumulate.
	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, w := range rl.windows {
			if now.After(w.end) {
				delete(rl.windows, k)
			}
		}
		rl.cleanupN = 0
	}

	w, ok := rl.windows[key]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(rl.period)}
		rl.windows[key] = w
	}
	w.count++
	return w.count <= rl.max
}

// Info reports the remaining quota and reset horizon for key without
// consuming a request. A key with no live window has the full quota.
func (rl *RateLimiter) Info(key string) RateLimitInfo {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.After(w.end) {
		return RateLimitInfo{Remaining: rl.max, ResetIn: int(rl.period.Seconds())}
	}
	remaining := rl.max - w.count
	if remaining < 0 {
		remaining = 0
	}
	resetIn := int(w.end.Sub(now).Seconds() + 0.999)
	if resetIn < 0 {
		resetIn = 0
	}
	return RateLimitInfo{Remaining: remaining, ResetIn: resetIn}
}

// Max returns the configured per-window quota.
func (rl *RateLimiter) Max() int { return rl.max }

// Handler returns a Gin middleware that enforces the limiter and
// advertises quota state via X-RateLimit-* headers.
//
// On rejection the middleware emits:
//
//	HTTP/1.1 429 Too Many Requests
//	Retry-After: <seconds>
//	{
//	  "request_id": "<uuid>",
//	  "error":      "too_many_requests",
//	  "details":    "Çok fazla istek. Lütfen bir dakika bekleyip tekrar deneyin."
//	}
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.keyFn(c)
		allowed := rl.Allow(key)
		info := rl.Info(key)

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.max))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		h.Set("X-RateLimit-Reset", strconv.Itoa(info.ResetIn))

		if allowed {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(info.ResetIn))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get("X-Request-ID"),
			"error":      "too_many_requests",
			"details":    "Çok fazla istek. Lütfen bir dakika bekleyip tekrar deneyin.",
		})
	}
}
