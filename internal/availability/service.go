package availability

import (
	"context"

	"github.com/Loftsmart/loft73-inventory-server/internal/shopify"
	"github.com/Loftsmart/loft73-inventory-server/platform/apperr"
	"github.com/Loftsmart/loft73-inventory-server/platform/config"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"
)

// CatalogSource streams catalog pages in order. *shopify.Client satisfies
// it; tests substitute a canned source.
type CatalogSource interface {
	ForEachPage(ctx context.Context, fn func(products []shopify.Product) error) error
}

// Service runs availability checks against the store catalog.
type Service struct {
	cfg     config.ShopifyConfig
	catalog CatalogSource
	log     *logger.Logger
}

func NewService(cfg config.ShopifyConfig, catalog CatalogSource, log *logger.Logger) *Service {
	return &Service{cfg: cfg, catalog: catalog, log: log}
}

// CheckAvailability matches the supplied products against the full catalog.
// Input shape is checked before credentials: a malformed list is the
// caller's fault (400) even on an unconfigured deployment. The catalog walk
// is fail-fast: an upstream error on any page aborts the whole check, and
// partially matched results are not returned to the caller.
func (s *Service) CheckAvailability(ctx context.Context, products []ExternalProduct) (Report, error) {
	session, err := NewMatchSession(products)
	if err != nil {
		return Report{}, err
	}

	if !s.cfg.IsShopifyConfigured() {
		return Report{}, apperr.Configuration("shopify credentials are not configured")
	}

	err = s.catalog.ForEachPage(ctx, func(page []shopify.Product) error {
		session.ProcessPage(page)
		return nil
	})
	if err != nil {
		s.log.Error("catalog walk aborted",
			"error", err,
			"catalog_products_seen", session.CatalogSeen(),
			"matched_before_abort", len(session.Results()),
		)
		return Report{}, err
	}

	report := BuildReport(session)

	s.log.Info("availability check complete",
		"external_products", report.Stats.TotalExternalProducts,
		"catalog_products", report.Stats.TotalCatalogProducts,
		"matched", report.Stats.MatchedProducts,
		"match_rate", report.Stats.MatchRate,
	)

	return report, nil
}
