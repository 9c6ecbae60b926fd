package reference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudsteer/console-core/pkg/session"
)

// ListClient issues list calls against the upstream API gateway and
// authenticates them with the session's current access token.
type ListClient struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Manager
}

// NewListClient creates a list client bound to the session manager
func NewListClient(endpoint string, timeout time.Duration, sess *session.Manager) *ListClient {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &ListClient{
		baseURL:    strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    sess,
	}
}

type listRequest struct {
	Query listQuery `json:"query"`
}

type listQuery struct {
	Only []string `json:"only,omitempty"`
}

type listResponse struct {
	Results    json.RawMessage `json:"results"`
	TotalCount int             `json:"total_count"`
}

// List posts a projection query to path and unmarshals the results
// array into dest, which must be a pointer to a slice.
func (c *ListClient) List(ctx context.Context, path string, only []string, dest interface{}) error {
	payload, err := json.Marshal(listRequest{Query: listQuery{Only: only}})
	if err != nil {
		return fmt.Errorf("failed to encode list request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("list request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("list request %s failed: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if len(body.Results) == 0 {
		return nil
	}
	if err := json.Unmarshal(body.Results, dest); err != nil {
		return fmt.Errorf("failed to decode %s results: %w", path, err)
	}
	return nil
}
