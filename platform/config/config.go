// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server and router middleware.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetMaxBodyBytes() int64
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// ShopifyConfig provides settings for the Shopify Admin API client.
type ShopifyConfig interface {
	GetShopifyStoreDomain() string
	GetShopifyAccessToken() string
	GetShopifyAPIVersion() string
	GetShopifyBaseURL() string
	GetShopifyPageLimit() int
	GetShopifyHTTPTimeout() time.Duration
	IsShopifyConfigured() bool
}

// FeedConfig provides settings for the pending-notifications feed client.
type FeedConfig interface {
	GetFeedURL() string
	GetFeedToken() string
	GetFeedCacheTTL() time.Duration
	GetFeedHTTPTimeout() time.Duration
	IsFeedConfigured() bool
}

// WebhookConfig provides settings for the back-in-stock webhook ingress.
type WebhookConfig interface {
	GetWebhookPaths() []string
	GetWebhookSigningSecret() string
	IsWebhookSigningConfigured() bool
	GetAlertLogCapacity() int
}

// StatusConfig provides the configured-state booleans surfaced by the
// health endpoint.
type StatusConfig interface {
	GetEnv() string
	IsShopifyConfigured() bool
	IsFeedConfigured() bool
	IsWebhookSigningConfigured() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	MaxBodyBytes         int64
	RateLimitRPS         float64
	RateLimitBurst       int
	ShopifyStoreDomain   string
	ShopifyAccessToken   string
	ShopifyAPIVersion    string
	ShopifyPageLimit     int
	ShopifyHTTPTimeout   time.Duration
	FeedURL              string
	FeedToken            string
	FeedCacheTTL         time.Duration
	FeedHTTPTimeout      time.Duration
	WebhookPaths         []string
	WebhookSigningSecret string
	AlertLogCapacity     int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetMaxBodyBytes() int64   { return c.MaxBodyBytes }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// ShopifyConfig implementation
func (c *Config) GetShopifyStoreDomain() string { return c.ShopifyStoreDomain }
func (c *Config) GetShopifyAccessToken() string { return c.ShopifyAccessToken }
func (c *Config) GetShopifyAPIVersion() string  { return c.ShopifyAPIVersion }
func (c *Config) GetShopifyBaseURL() string {
	return fmt.Sprintf("https://%s/admin/api/%s", c.ShopifyStoreDomain, c.ShopifyAPIVersion)
}
func (c *Config) GetShopifyPageLimit() int             { return c.ShopifyPageLimit }
func (c *Config) GetShopifyHTTPTimeout() time.Duration { return c.ShopifyHTTPTimeout }
func (c *Config) IsShopifyConfigured() bool {
	return c.ShopifyStoreDomain != "" && c.ShopifyAccessToken != ""
}

// FeedConfig implementation
func (c *Config) GetFeedURL() string                { return c.FeedURL }
func (c *Config) GetFeedToken() string              { return c.FeedToken }
func (c *Config) GetFeedCacheTTL() time.Duration    { return c.FeedCacheTTL }
func (c *Config) GetFeedHTTPTimeout() time.Duration { return c.FeedHTTPTimeout }
func (c *Config) IsFeedConfigured() bool {
	return c.FeedURL != "" && c.FeedToken != ""
}

// WebhookConfig implementation
func (c *Config) GetWebhookPaths() []string        { return c.WebhookPaths }
func (c *Config) GetWebhookSigningSecret() string  { return c.WebhookSigningSecret }
func (c *Config) IsWebhookSigningConfigured() bool { return c.WebhookSigningSecret != "" }
func (c *Config) GetAlertLogCapacity() int         { return c.AlertLogCapacity }

// StatusConfig implementation
func (c *Config) GetEnv() string { return c.Env }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		MaxBodyBytes:         mustInt64(getEnv("MAX_BODY_BYTES", "1048576")),
		RateLimitRPS:         mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:       mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		ShopifyStoreDomain:   getEnv("SHOPIFY_STORE_DOMAIN", "loft73.myshopify.com"),
		ShopifyAccessToken:   getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		ShopifyAPIVersion:    getEnv("SHOPIFY_API_VERSION", "2024-01"),
		ShopifyPageLimit:     mustInt(getEnv("SHOPIFY_PAGE_LIMIT", "250")),
		ShopifyHTTPTimeout:   mustDuration(getEnv("SHOPIFY_HTTP_TIMEOUT", "30s")),
		FeedURL:              getEnv("FEED_URL", ""),
		FeedToken:            getEnv("FEED_TOKEN", ""),
		FeedCacheTTL:         mustDuration(getEnv("FEED_CACHE_TTL", "4m")),
		FeedHTTPTimeout:      mustDuration(getEnv("FEED_HTTP_TIMEOUT", "30s")),
		WebhookPaths:         splitCSV(getEnv("WEBHOOK_PATHS", "/webhook/back-in-stock,/webhooks/back-in-stock,/api/webhooks/back-in-stock")),
		WebhookSigningSecret: getEnv("WEBHOOK_SIGNING_SECRET", ""),
		AlertLogCapacity:     mustInt(getEnv("ALERT_LOG_CAPACITY", "500")),
	}

	if cfg.ShopifyPageLimit < 1 || cfg.ShopifyPageLimit > 250 {
		return nil, fmt.Errorf("SHOPIFY_PAGE_LIMIT must be between 1 and 250")
	}
	if cfg.ShopifyHTTPTimeout <= 0 {
		return nil, fmt.Errorf("SHOPIFY_HTTP_TIMEOUT must be a positive duration")
	}
	if cfg.FeedCacheTTL <= 0 {
		return nil, fmt.Errorf("FEED_CACHE_TTL must be a positive duration")
	}
	if cfg.FeedHTTPTimeout <= 0 {
		return nil, fmt.Errorf("FEED_HTTP_TIMEOUT must be a positive duration")
	}
	if cfg.AlertLogCapacity < 1 {
		return nil, fmt.Errorf("ALERT_LOG_CAPACITY must be at least 1")
	}
	if cfg.MaxBodyBytes < 1 {
		return nil, fmt.Errorf("MAX_BODY_BYTES must be at least 1")
	}
	if cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number")
	}
	if cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	if len(cfg.WebhookPaths) == 0 {
		return nil, fmt.Errorf("WEBHOOK_PATHS must list at least one path")
	}
	for _, path := range cfg.WebhookPaths {
		if !strings.HasPrefix(path, "/") {
			return nil, fmt.Errorf("WEBHOOK_PATHS entries must start with '/': %q", path)
		}
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
