package availability

import (
	apphttp "github.com/Loftsmart/loft73-inventory-server/internal/http"
	"github.com/Loftsmart/loft73-inventory-server/internal/shopify"
	"github.com/Loftsmart/loft73-inventory-server/platform/config"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"
	"github.com/Loftsmart/loft73-inventory-server/platform/validator"
)

// Module wires the product availability check HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(cfg config.ShopifyConfig, val *validator.Validator, log *logger.Logger) *Module {
	client := shopify.NewClient(cfg, log)
	svc := NewService(cfg, client, log)
	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string {
	return "availability"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/shopify")
	group.POST("/products-availability", m.handler.CheckAvailability)
}

var _ apphttp.Module = (*Module)(nil)
