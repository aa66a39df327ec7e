// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, API key auth, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/isimkutusu/go-names-backend/internal/config"
	"github.com/isimkutusu/go-names-backend/internal/http/handlers"
	"github.com/isimkutusu/go-names-backend/internal/http/middleware"
	"github.com/isimkutusu/go-names-backend/internal/llm"
	"github.com/isimkutusu/go-names-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), compression, CORS
// and security headers, health and metrics endpoints, and then mounts the
// public API under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with credential scrubbing
//  4. Recovery: capture panics after logger
//  5. Global body size limiter
//  6. Metrics
//  7. Gzip compression
//  8. CORS and Security headers
//
// Rate limiting is per route group: classification is keyed by client IP,
// catalogue routes by API key (falling back to IP). The catalogue write
// endpoint additionally caps its payload at cfg.MaxBodySize.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			middleware.HeaderAPIKey,
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compress listing payloads
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderAPIKey},
			ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
			// Preflights answer 200 with an empty body, not the 204 default.
			OptionsResponseStatusCode: http.StatusOK,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderAPIKey},
			ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
			// Preflights answer 200 with an empty body, not the 204 default.
			OptionsResponseStatusCode: http.StatusOK,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		// Same-origin OPTIONS carries no Origin header, so gin-contrib/cors
		// never sees it as a preflight. Answer it with a bare 200 anyway.
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusOK)
			return
		}
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/model client
	var model llm.Generator
	if cfg.Gemini.APIKey != "" {
		model = llm.New(cfg.Gemini)
	}
	nameSvc := &services.NameService{
		DB:    db,
		Cache: services.NewListingCache(cfg.CacheTTL),
	}
	classifySvc := &services.ClassifyService{DB: db, Model: model}
	h := handlers.New(nameSvc, classifySvc)

	// Per-group fixed-window rate limiters
	classifyRL := middleware.NewRateLimiter(cfg.RateIPPerMin, cfg.RateWindow, middleware.KeyByClientIP())
	catalogueRL := middleware.NewRateLimiter(cfg.RateKeyPerMin, cfg.RateWindow, middleware.KeyByAPIKeyOrIP())

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Classification
		api.POST("/classify", classifyRL.Handler(), h.ClassifyName)

		// Catalogue
		catalogue := api.Group("/catalogue")
		catalogue.Use(middleware.APIKeyAuth(middleware.APIKeyOptions{
			ExpectedKey:    cfg.MobileAPIKey,
			TrustedOrigins: cfg.TrustedOrigins,
			Required:       cfg.MobileAPIKey != "",
		}))
		catalogue.Use(catalogueRL.Handler())
		catalogue.GET("", h.ListNames)
		catalogue.POST("", limitBody(cfg.MaxBodySize), h.CreateNames)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
