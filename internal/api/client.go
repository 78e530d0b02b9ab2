// Package api talks to the dashboard backend: the full node registry and
// the public site settings. It is a read-only collaborator; the live
// telemetry stream arrives through the feed supervisor instead.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fleetdeck/fleetdeck/internal/errors"
	"github.com/fleetdeck/fleetdeck/internal/fleet"
	"github.com/fleetdeck/fleetdeck/internal/logger"
)

// DefaultSitename is displayed when public settings are unavailable.
const DefaultSitename = "fleetdeck"

// Settings is the public site configuration consumed once at startup.
type Settings struct {
	Sitename string `json:"sitename"`
}

// Client fetches the node registry and site settings over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a client for the given base URL. A zero timeout
// defaults to 10 seconds.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FetchNodes retrieves the full static node set. Implements
// fleet.NodeSource.
func (c *Client) FetchNodes(ctx context.Context) ([]fleet.Node, error) {
	var nodes []fleet.Node
	if err := c.getJSON(ctx, "/api/nodes", &nodes); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Failed to fetch the node registry",
			"Check that the backend is reachable at "+c.baseURL)
	}
	return nodes, nil
}

// FetchSettings retrieves the public site settings. Callers treat a
// failure here as non-fatal and fall back to DefaultSitename.
func (c *Client) FetchSettings(ctx context.Context) (Settings, error) {
	var s Settings
	if err := c.getJSON(ctx, "/api/public-settings", &s); err != nil {
		return Settings{}, errors.WrapWithCode(err, errors.ErrFetch,
			"Failed to fetch site settings",
			"The dashboard continues with the default sitename")
	}
	if s.Sitename == "" {
		s.Sitename = DefaultSitename
	}
	return s, nil
}

// Bootstrap fetches nodes and settings concurrently for startup. A
// settings failure is logged and replaced by defaults; a nodes failure
// fails the call.
func (c *Client) Bootstrap(ctx context.Context) ([]fleet.Node, Settings, error) {
	var (
		nodes    []fleet.Node
		settings Settings
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nodes, err = c.FetchNodes(ctx)
		return err
	})
	g.Go(func() error {
		s, err := c.FetchSettings(ctx)
		if err != nil {
			c.log.Warn("settings fetch failed, using defaults: %v", err)
			s = Settings{Sitename: DefaultSitename}
		}
		settings = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, Settings{}, err
	}
	return nodes, settings, nil
}

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
