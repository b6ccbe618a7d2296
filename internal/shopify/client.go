// Package shopify is a typed client for the Shopify Admin REST API,
// reduced to the product catalog surface this service consumes.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Loftsmart/loft73-inventory-server/platform/apperr"
	"github.com/Loftsmart/loft73-inventory-server/platform/config"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"

	"golang.org/x/time/rate"
)

// Product is a catalog product, projected down to the fields requested
// from the Admin API.
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
	Images   []Image   `json:"images"`
}

// Variant is a purchasable unit of a product. InventoryQuantity is a
// pointer because the API reports null for untracked inventory.
type Variant struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity *int64 `json:"inventory_quantity"`
}

// Image is a product image reference.
type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Client pages through the store catalog. Pagination follows the Link
// response header, so every page URL after the first comes verbatim from
// the previous response.
type Client struct {
	cfg     config.ShopifyConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewClient creates an Admin API client for the configured store.
func NewClient(cfg config.ShopifyConfig, log *logger.Logger) *Client {
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.GetShopifyHTTPTimeout()},
		limiter: rate.NewLimiter(rate.Limit(2), 1), // Admin API allows 2 req/s
		log:     log,
	}
}

// ForEachPage walks the full catalog from the first page, invoking fn once
// per page in the order the API returns them. Any transport, status, or
// decode failure aborts the walk immediately; pages already delivered to fn
// stay delivered. There are no retries.
func (c *Client) ForEachPage(ctx context.Context, fn func(products []Product) error) error {
	pageURL := c.firstPageURL()

	for pageURL != "" {
		products, next, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return err
		}

		if err := fn(products); err != nil {
			return err
		}

		pageURL = next
	}

	return nil
}

// firstPageURL carries the page size and field projection. Follow-up URLs
// already encode both, so they are sent untouched.
func (c *Client) firstPageURL() string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.cfg.GetShopifyPageLimit()))
	params.Set("fields", "id,title,variants,images")

	return fmt.Sprintf("%s/products.json?%s", c.cfg.GetShopifyBaseURL(), params.Encode())
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]Product, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", apperr.Upstream("catalog fetch interrupted", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", apperr.Upstream("building catalog request failed", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.cfg.GetShopifyAccessToken())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.UpstreamCall("shopify", pageURL, 0, err)
		return nil, "", apperr.Upstream("catalog page fetch failed: "+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		upstreamErr := apperr.Upstream(
			fmt.Sprintf("catalog responded with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
		c.log.UpstreamCall("shopify", pageURL, resp.StatusCode, upstreamErr)
		return nil, "", upstreamErr
	}

	var payload struct {
		Products []Product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", apperr.Upstream("decoding catalog page failed", err)
	}

	c.log.UpstreamCall("shopify", pageURL, resp.StatusCode, nil)

	return payload.Products, nextLink(resp.Header.Get("Link")), nil
}

// nextLink extracts the rel="next" URL from a Link header of the form
// `<url>; rel="previous", <url>; rel="next"`. Entries without the <url>
// delimiters are ignored.
func nextLink(header string) string {
	if header == "" {
		return ""
	}

	for _, entry := range strings.Split(header, ",") {
		if !strings.Contains(entry, `rel="next"`) {
			continue
		}

		urlPart := strings.TrimSpace(strings.Split(entry, ";")[0])
		if !strings.HasPrefix(urlPart, "<") || !strings.HasSuffix(urlPart, ">") {
			continue
		}

		return strings.Trim(urlPart, "<>")
	}

	return ""
}
