// Package httpapi wires the HTTP transport (Gin) to the storefront services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-keynexus/docs"
	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/config"
	"github.com/tbourn/go-keynexus/internal/http/handlers"
	"github.com/tbourn/go-keynexus/internal/http/middleware"
	"github.com/tbourn/go-keynexus/internal/repo"
	"github.com/tbourn/go-keynexus/internal/scout"
	"github.com/tbourn/go-keynexus/internal/services"
)

// Deps are the services behind the HTTP API.
type Deps struct {
	DB       *gorm.DB
	Catalog  *services.CatalogService
	Sessions *services.SessionStore
	Cart     *services.CartService
	Scout    *services.ScoutService
	Replays  *services.ReplayStore
}

// NewDeps builds the service graph over an open database, a loaded catalog
// and a text provider. Expired sessions drop their stored replies. The
// caller owns the session sweeper (Deps.Sessions.Run).
func NewDeps(db *gorm.DB, store *catalog.Store, provider scout.Provider, cfg config.Config) Deps {
	prompts := scout.NewPromptBuilder(store.All(), cfg.Scout.Language)
	sessions := services.NewSessionStore(func() *scout.Session {
		return scout.NewSession(provider, prompts)
	}, cfg.Session.TTL, cfg.Session.MaxSessions)

	replays := services.NewReplayStore(db, cfg.IdempotencyTTL)
	sessions.OnExpire = replays.Forget

	return Deps{
		DB:       db,
		Catalog:  &services.CatalogService{Store: store},
		Sessions: sessions,
		Cart:     &services.CartService{Sessions: sessions, Catalog: store},
		Scout: &services.ScoutService{
			Sessions: sessions,
			Catalog:  store,
			MaxRunes: cfg.MaxUtteranceRunes,
			Timeout:  cfg.Scout.Timeout,
		},
		Replays: replays,
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access log (redacting in production)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per session/IP, bypass on replay)
//  9. gzip, CORS and security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())

	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-Goog-Api-Key"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	r.Use(middleware.Recovery())

	// Shopper messages are short; 64 KiB is generous.
	r.Use(limitBody(64 << 10))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var lookup middleware.IdempotencyLookup
	if deps.Replays != nil {
		lookup = func(ctx context.Context, sessionID, key string, _ time.Time) (bool, error) {
			_, found := deps.Replays.Lookup(ctx, sessionID, key)
			return found, nil
		}
	}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, lookup))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySessionOrIP())
	r.Use(rl.Handler())

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	corsHeaders := []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey}
	exposed := []string{"X-Request-ID", "Content-Length", "ETag", "Idempotency-Replayed"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    exposed,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
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
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    exposed,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      middleware.IsSessionRoute,
		EnablePolicy: true,
		Expose:       []string{"ETag", "Idempotency-Replayed"},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ready", ready(deps.DB))

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(deps.Catalog, deps.Sessions, deps.Cart, deps.Scout, replayStore(deps.Replays))

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Catalog
		api.GET("/catalog/facets", h.Facets)
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)

		// Sessions
		api.POST("/sessions", h.CreateSession)
		api.DELETE("/sessions/:id", h.DeleteSession)

		// Cart
		api.GET("/sessions/:id/cart", h.GetCart)
		api.DELETE("/sessions/:id/cart", h.ClearCart)
		api.POST("/sessions/:id/cart/items", h.AddCartItem)
		api.PATCH("/sessions/:id/cart/items/:productId", h.AdjustCartItem)
		api.DELETE("/sessions/:id/cart/items/:productId", h.RemoveCartItem)
		api.PUT("/sessions/:id/cart/visibility", h.SetCartVisibility)

		// Shopping assistant
		api.GET("/sessions/:id/scout/messages", h.ListScoutMessages)
		api.POST("/sessions/:id/scout/messages", h.PostScoutMessage)
		api.POST("/sessions/:id/scout/messages/:index/cart", h.AddRecommendationToCart)
	}
}

// replayStore keeps a nil *ReplayStore from becoming a non-nil interface.
func replayStore(s *services.ReplayStore) handlers.ReplayStore {
	if s == nil {
		return nil
	}
	return s
}

// ready reports 503 while the database does not answer a ping.
func ready(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := repo.Ping(ctx, db); err != nil {
				middleware.LoggerFrom(c).Warn().Err(err).Msg("readiness check failed")
				handlers.Fail(c, http.StatusServiceUnavailable, handlers.ErrCodeUnavailable, "database unavailable")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
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
