package feed

import (
	"context"

	"github.com/Loftsmart/loft73-inventory-server/platform/apperr"
	"github.com/Loftsmart/loft73-inventory-server/platform/config"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"
)

// Service serves the pending-notifications feed through the TTL cache.
type Service struct {
	cfg    config.FeedConfig
	client *Client
	cache  *Cache
	log    *logger.Logger
}

func NewService(cfg config.FeedConfig, client *Client, cache *Cache, log *logger.Logger) *Service {
	return &Service{cfg: cfg, client: client, cache: cache, log: log}
}

// Pending returns the parsed feed, served from cache while fresh.
func (s *Service) Pending(ctx context.Context) (Snapshot, bool, error) {
	if !s.cfg.IsFeedConfigured() {
		return Snapshot{}, false, apperr.Configuration("feed credentials are not configured")
	}

	return s.cache.Get(ctx, s.client.Fetch)
}

// InvalidateCache drops the memoized feed so the next request refetches.
func (s *Service) InvalidateCache() {
	s.cache.Invalidate()
	s.log.Debug("feed cache invalidated")
}
