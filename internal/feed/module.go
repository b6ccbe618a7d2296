// Package feed proxies the pending-notifications CSV export from the
// restock-alert service behind a short-lived cache.
package feed

import (
	"context"
	"time"

	"github.com/Loftsmart/loft73-inventory-server/internal/events"
	apphttp "github.com/Loftsmart/loft73-inventory-server/internal/http"
	"github.com/Loftsmart/loft73-inventory-server/platform/config"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"
)

// Module wires the feed client, cache, and proxy endpoint.
type Module struct {
	handler *Handler
	service *Service
}

func NewModule(cfg config.FeedConfig, log *logger.Logger) *Module {
	client := NewClient(cfg, log)
	cache := NewCache(cfg.GetFeedCacheTTL(), time.Now)
	svc := NewService(cfg, client, cache, log)

	return &Module{
		handler: NewHandler(svc),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "feed"
}

// RegisterRoutes mounts the feed proxy under /api/feed.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/feed")
	group.GET("/pending", m.handler.Pending)
}

// RegisterHandlers subscribes to notification events. A new notification
// means the pending export changed, so the memoized feed is dropped.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.NotificationReceived{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch event.(type) {
	case events.NotificationReceived:
		m.service.InvalidateCache()
		return nil
	default:
		return nil
	}
}

var _ apphttp.Module = (*Module)(nil)
