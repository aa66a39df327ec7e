// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements API-key screening for the catalogue surface. The
// key is optional by design: browser clients from trusted origins are
// served without one and fall back to IP-keyed rate limiting. This is an
// explicit, configured convenience for the web frontend, not a security
// boundary.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey is the request header carrying the client credential.
const HeaderAPIKey = "X-API-Key"

// APIKeyOptions configures APIKeyAuth.
//
// ExpectedKey is the configured secret; when empty, any presented key is
// accepted (checking disabled). TrustedOrigins lists Origin/Referer
// substrings whose requests may omit the key entirely. Required forces a
// key for requests from outside the trusted origins.
type APIKeyOptions struct {
	ExpectedKey    string
	TrustedOrigins []string
	Required       bool
}

// APIKeyAuth returns a Gin middleware that validates the X-API-Key
// header when present and decides whether key-less requests may proceed.
//
// Behavior:
//   - Header present + ExpectedKey configured: constant-time compare;
//     mismatch aborts with 401.
//   - Header absent: allowed when the Origin or Referer matches a trusted
//     origin, or when Required is false; otherwise 401.
//
// Rate limiting is not performed here; the limiter keyed by
// KeyByAPIKeyOrIP runs downstream so keyed and key-less clients land in
// separate buckets.
func APIKeyAuth(opts APIKeyOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderAPIKey)

		if key == "" {
			if !opts.Required || fromTrustedOrigin(c, opts.TrustedOrigins) {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"error":      "unauthorized",
				"details":    "API key is required. Include X-API-Key header.",
			})
			return
		}

		if opts.ExpectedKey != "" &&
			subtle.ConstantTimeCompare([]byte(key), []byte(opts.ExpectedKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"error":      "unauthorized",
				"details":    "Invalid API key",
			})
			return
		}

		c.Next()
	}
}

// fromTrustedOrigin reports whether the request's Origin (or Referer,
// when Origin is empty) contains one of the configured origins.
func fromTrustedOrigin(c *gin.Context, trusted []string) bool {
	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = c.GetHeader("Referer")
	}
	if origin == "" {
		return false
	}
	for _, t := range trusted {
		if t != "" && strings.Contains(origin, t) {
			return true
		}
	}
	return false
}
