// Package router assembles the Gin engine from the application definition.
package router

import (
	"net/http"
	"time"

	apphttp "github.com/Loftsmart/loft73-inventory-server/internal/http"
	"github.com/Loftsmart/loft73-inventory-server/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the HTTP engine: global middleware, CORS, the health endpoint,
// and every module's routes.
func New(app *apphttp.App) *gin.Engine {
	cfg := app.Config

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.BodySizeLimit(cfg.GetMaxBodyBytes()))
	engine.Use(cors.New(corsConfig(cfg)))

	// Health reports whether the upstream credentials are present, so a
	// dashboard can tell "broken call" from "broken deployment".
	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":                   "ok",
			"env":                      cfg.GetEnv(),
			"shopifyConfigured":        cfg.IsShopifyConfigured(),
			"feedConfigured":           cfg.IsFeedConfigured(),
			"webhookSigningConfigured": cfg.IsWebhookSigningConfigured(),
			"time":                     time.Now().UTC().Format(time.RFC3339),
		})
	})

	limiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetRateLimitRPS()), cfg.GetRateLimitBurst(), app.Logger)
	api := engine.Group("/api")
	api.Use(limiter.RateLimit())

	ctx := &apphttp.RouterContext{
		Engine: engine,
		API:    api,
		Log:    app.Logger,
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "X-Webhook-Signature"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}

	corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	corsCfg.AllowCredentials = cfg.GetCORSAllowCreds()
	return corsCfg
}
