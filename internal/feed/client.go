package feed

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Loftsmart/loft73-inventory-server/platform/apperr"
	"github.com/Loftsmart/loft73-inventory-server/platform/config"
	"github.com/Loftsmart/loft73-inventory-server/platform/logger"
)

// Client downloads the pending-notifications CSV export from the
// restock-alert service.
type Client struct {
	cfg    config.FeedConfig
	client *http.Client
	log    *logger.Logger
}

func NewClient(cfg config.FeedConfig, log *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.GetFeedHTTPTimeout()},
		log:    log,
	}
}

// Fetch downloads and parses the feed. Auth is attempted with a bearer
// header first; some deployments of the feed reject header auth, so any
// failed attempt is retried once with the token as a query parameter.
func (c *Client) Fetch(ctx context.Context) ([]map[string]string, error) {
	raw, err := c.get(ctx, false)
	if err != nil {
		raw, err = c.get(ctx, true)
	}
	if err != nil {
		return nil, err
	}

	return parseRows(raw)
}

func (c *Client) get(ctx context.Context, tokenInURL bool) ([]byte, error) {
	feedURL := c.cfg.GetFeedURL()
	if tokenInURL {
		u, err := url.Parse(feedURL)
		if err != nil {
			return nil, apperr.Upstream("feed url is invalid: "+err.Error(), err)
		}
		q := u.Query()
		q.Set("api_token", c.cfg.GetFeedToken())
		u.RawQuery = q.Encode()
		feedURL = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, apperr.Upstream("building feed request failed: "+err.Error(), err)
	}
	if !tokenInURL {
		req.Header.Set("Authorization", "Bearer "+c.cfg.GetFeedToken())
	}

	// The logged url never includes the token.
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.UpstreamCall("feed", c.cfg.GetFeedURL(), 0, err)
		return nil, apperr.Upstream("feed fetch failed: "+err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		upstreamErr := apperr.Upstream(fmt.Sprintf("feed responded with status %d", resp.StatusCode), nil)
		c.log.UpstreamCall("feed", c.cfg.GetFeedURL(), resp.StatusCode, upstreamErr)
		return nil, upstreamErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream("reading feed response failed: "+err.Error(), err)
	}

	c.log.UpstreamCall("feed", c.cfg.GetFeedURL(), resp.StatusCode, nil)

	return raw, nil
}

// parseRows converts the CSV payload into header-keyed rows. The csv reader
// rejects records whose field count differs from the header's.
func parseRows(raw []byte) ([]map[string]string, error) {
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return nil, apperr.Upstream("feed payload is not valid CSV: "+err.Error(), err)
	}
	if len(records) == 0 {
		return []map[string]string{}, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			row[key] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}
