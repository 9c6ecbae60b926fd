package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	tokenGrantPath   = "/identity/token/grant"
	tokenRefreshPath = "/identity/token/refresh"
	roleGetPath      = "/identity/role/get"
)

// Client is a REST client for the identity service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an identity client for the given API gateway endpoint
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TokenGrant exchanges a refresh token and scope for a scoped access token
func (c *Client) TokenGrant(ctx context.Context, req TokenGrantRequest) (*TokenGrantResponse, error) {
	var resp TokenGrantResponse
	if err := c.post(ctx, tokenGrantPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshAccessToken exchanges a refresh token for a fresh access token.
// Satisfies session.TokenRefresher.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	var resp TokenRefreshResponse
	if err := c.post(ctx, tokenRefreshPath, TokenRefreshRequest{Token: refreshToken}, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// RoleGet fetches a role record by id
func (c *Client) RoleGet(ctx context.Context, roleID string) (*Role, error) {
	var resp Role
	if err := c.post(ctx, roleGetPath, RoleGetRequest{RoleID: roleID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping checks connectivity to the API gateway. Satisfies observability.Pinger.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity endpoint unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// post sends a JSON request and decodes a JSON response
func (c *Client) post(ctx context.Context, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("identity request %s failed: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", path, err)
		}
	}
	return nil
}
