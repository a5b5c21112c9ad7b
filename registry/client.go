package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	EndpointGetCrate             = "get_crates"
	EndpointGetCrateDependencies = "get_crate_dependencies"
)

// Observer receives the outcome of every upstream call that produced a response.
type Observer interface {
	ObserveRegistryRequest(baseURL, endpoint string, statusCode int, elapsed time.Duration)
}

type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Observer   Observer
}

// Fetch crate metadata
func (c *Client) GetCrate(ctx context.Context, name string) (*CrateResponse, error) {
	u := fmt.Sprintf("%s/api/v1/crates/%s", c.baseURL(), url.PathEscape(name))

	var crate CrateResponse
	if err := c.get(ctx, EndpointGetCrate, u, &crate); err != nil {
		return nil, err
	}
	return &crate, nil
}

// Fetch the declared dependencies of one crate version
func (c *Client) GetCrateDependencies(ctx context.Context, name, version string) (*DependenciesResponse, error) {
	u := fmt.Sprintf("%s/api/v1/crates/%s/%s/dependencies",
		c.baseURL(), url.PathEscape(name), url.PathEscape(version))

	var deps DependenciesResponse
	if err := c.get(ctx, EndpointGetCrateDependencies, u, &deps); err != nil {
		return nil, err
	}
	return &deps, nil
}

func (c *Client) get(ctx context.Context, endpoint, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return transportError(endpoint, err)
	}
	defer resp.Body.Close()

	if c.Observer != nil {
		c.Observer.ObserveRegistryRequest(c.baseURL(), endpoint, resp.StatusCode, time.Since(start))
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return decodeError(endpoint, err)
	}
	return nil
}

func (c *Client) baseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
