package marine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/signalsfoundry/drift-simulator/internal/logging"
)

const defaultRequestTimeout = 30 * time.Second

// ClientConfig carries the connection settings for the marine-data service.
type ClientConfig struct {
	BaseURL         string
	APIToken        string
	CurrentsProduct string
	WindProduct     string
}

// Client fetches gridded environmental subsets from the marine-data service.
type Client struct {
	cfg  ClientConfig
	http *http.Client
	log  logging.Logger
}

func NewClient(cfg ClientConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.Noop()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: defaultRequestTimeout},
		log:  log,
	}
}

// Configured reports whether a base URL is set. An unconfigured client makes
// no requests; callers fall back to default environmental values.
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != ""
}

// CurrentsProduct returns the configured ocean-currents product identifier.
func (c *Client) CurrentsProduct() string { return c.cfg.CurrentsProduct }

// WindProduct returns the configured surface-wind product identifier.
func (c *Client) WindProduct() string { return c.cfg.WindProduct }

// FetchCurrents downloads the ocean-currents subset for the given box and window.
func (c *Client) FetchCurrents(ctx context.Context, bounds Bounds, start, end time.Time) (*Dataset, error) {
	return c.fetch(ctx, c.cfg.CurrentsProduct, bounds, start, end)
}

// FetchWind downloads the surface-wind subset for the given box and window.
func (c *Client) FetchWind(ctx context.Context, bounds Bounds, start, end time.Time) (*Dataset, error) {
	return c.fetch(ctx, c.cfg.WindProduct, bounds, start, end)
}

func (c *Client) fetch(ctx context.Context, product string, bounds Bounds, start, end time.Time) (*Dataset, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("marine client not configured")
	}
	if product == "" {
		return nil, fmt.Errorf("empty product identifier")
	}

	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	u = u.JoinPath("v1", "datasets", product)

	q := u.Query()
	q.Set("min_lat", fmt.Sprintf("%.4f", bounds.MinLat))
	q.Set("max_lat", fmt.Sprintf("%.4f", bounds.MaxLat))
	q.Set("min_lon", fmt.Sprintf("%.4f", bounds.MinLon))
	q.Set("max_lon", fmt.Sprintf("%.4f", bounds.MaxLon))
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", product, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", product, resp.StatusCode)
	}

	var ds Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", product, err)
	}
	if ds.Product == "" {
		ds.Product = product
	}
	ds.Bounds = bounds
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	c.log.Debug(ctx, "fetched marine dataset",
		logging.String("product", product),
		logging.Int("time_slices", len(ds.Times)))
	return &ds, nil
}
