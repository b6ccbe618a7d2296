package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Loftsmart/loft73-inventory-server/internal/alerts"
	"github.com/Loftsmart/loft73-inventory-server/internal/availability"
	"github.com/Loftsmart/loft73-inventory-server/internal/events"
	"github.com/Loftsmart/loft73-inventory-server/internal/feed"
	apphttp "github.com/Loftsmart/loft73-inventory-server/internal/http"
	"github.com/Loftsmart/loft73-inventory-server/internal/http/router"
	"github.com/Loftsmart/loft73-inventory-server/platform/config"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"
	"github.com/Loftsmart/loft73-inventory-server/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	availabilityModule := availability.NewModule(cfg, val, log)
	alertsModule := alerts.NewModule(cfg, eventBus, log)
	feedModule := feed.NewModule(cfg, log)

	// Feed cache invalidation rides on notification events
	feedModule.RegisterHandlers(eventBus)

	if !cfg.IsShopifyConfigured() {
		log.Warn("SHOPIFY_STORE_DOMAIN or SHOPIFY_ACCESS_TOKEN not configured; availability checks disabled")
	}
	if !cfg.IsFeedConfigured() {
		log.Warn("FEED_URL or FEED_TOKEN not configured; feed proxy disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			availabilityModule,
			alertsModule,
			feedModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
