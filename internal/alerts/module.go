package alerts

import (
	"github.com/Loftsmart/loft73-inventory-server/internal/events"
	apphttp "github.com/Loftsmart/loft73-inventory-server/internal/http"
	"github.com/Loftsmart/loft73-inventory-server/platform/config"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"
)

// Module wires the back-in-stock webhook ingress and the notification log.
type Module struct {
	cfg     config.WebhookConfig
	handler *Handler
}

func NewModule(cfg config.WebhookConfig, eventBus events.Bus, log *logger.Logger) *Module {
	store := NewStore(cfg.GetAlertLogCapacity())
	svc := NewService(store, eventBus, log)
	verifier := NewVerifier(cfg.GetWebhookSigningSecret())

	return &Module{
		cfg:     cfg,
		handler: NewHandler(svc, store, verifier),
	}
}

func (m *Module) Name() string {
	return "alerts"
}

// RegisterRoutes mounts the ingress on every configured path alias and the
// log CRUD under /api/notifications. Aliases register on the engine directly
// because the sender cannot be told which prefix to use.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	for _, path := range m.cfg.GetWebhookPaths() {
		ctx.Engine.POST(path, m.handler.HandleWebhook)
	}

	group := ctx.API.Group("/notifications")
	group.GET("", m.handler.List)
	group.GET("/export", m.handler.Export)
	group.GET("/:id", m.handler.Get)
	group.DELETE("/:id", m.handler.Delete)
	group.DELETE("", m.handler.Clear)
	group.POST("/test", m.handler.GenerateTest)
}

var _ apphttp.Module = (*Module)(nil)
