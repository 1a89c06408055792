package spapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/opsdash/backend/internal/domain/order"
)

const (
	// maxResponseSize limits response body reads to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB

	userAgent = "OpsDash/1.0"
)

// Client fetches sandbox orders from the Selling Partner API. Each call
// performs a fresh LWA refresh-token exchange followed by a single order
// fetch; no retries are attempted.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new SP-API client with the given configuration.
// Credentials are not checked here; GetSandboxOrders validates them per
// call so a misconfigured process still starts and reports the defect on
// use.
func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.timeout(),
		},
	}
}

// GetSandboxOrders fetches one page of sandbox orders created after the
// given filter value. An empty createdAfter falls back to the configured
// default. Returns the records found under the response's payload.Orders
// field; an absent field yields an empty slice.
func (c *Client) GetSandboxOrders(ctx context.Context, createdAfter string) ([]order.RawOrder, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}

	token, err := c.fetchAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	if createdAfter == "" {
		createdAfter = c.config.CreatedAfter
	}
	return c.fetchOrders(ctx, token, createdAfter)
}

// fetchAccessToken performs the OAuth2 refresh-token grant against the LWA
// token endpoint
func (c *Client) fetchAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.config.RefreshToken)
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.tokenEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("spapi: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("spapi: failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", &AuthError{Status: resp.StatusCode, Body: "response contained no access_token"}
	}
	return token.AccessToken, nil
}

// fetchOrders issues the authenticated order search against the sandbox
func (c *Client) fetchOrders(ctx context.Context, accessToken, createdAfter string) ([]order.RawOrder, error) {
	query := url.Values{}
	query.Set("MarketplaceIds", c.config.MarketplaceID)
	query.Set("CreatedAfter", createdAfter)
	endpoint := fmt.Sprintf("%s/orders/v0/orders?%s", c.config.sandboxEndpoint(), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("spapi: failed to create orders request: %w", err)
	}
	req.Header.Set("x-amz-access-token", accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode}
	}

	var parsed ordersResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("spapi: failed to parse orders response: %w", err)
	}

	orders := parsed.Payload.Orders
	if orders == nil {
		orders = []order.RawOrder{}
	}
	return orders, nil
}
