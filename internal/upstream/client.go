package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aiostudio/console/internal/models"
)

// Client is a read-only HTTP client for the orchestrator backend. Every call
// is a plain GET returning JSON; no authentication is exchanged.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// CheckHealth probes /health. Only reachability matters; the payload is
// discarded.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request /health: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request /health: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request /health failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) AgentCount(ctx context.Context) (int, error) {
	var agents []json.RawMessage
	if err := c.getJSON(ctx, "/api/agents", &agents); err != nil {
		return 0, err
	}
	return len(agents), nil
}

func (c *Client) CredentialCount(ctx context.Context) (int, error) {
	var out struct {
		Credentials []json.RawMessage `json:"credentials"`
	}
	if err := c.getJSON(ctx, "/api/credentials", &out); err != nil {
		return 0, err
	}
	return len(out.Credentials), nil
}

func (c *Client) TLSEnabled(ctx context.Context) (bool, error) {
	var out struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.getJSON(ctx, "/api/certs", &out); err != nil {
		return false, err
	}
	return out.Enabled, nil
}

func (c *Client) ToolCount(ctx context.Context) (int, error) {
	var tools []json.RawMessage
	if err := c.getJSON(ctx, "/api/tools", &tools); err != nil {
		return 0, err
	}
	return len(tools), nil
}

func (c *Client) Connectivity(ctx context.Context) (models.ConnectivityReport, error) {
	var out models.ConnectivityReport
	if err := c.getJSON(ctx, "/api/monitoring/connectivity", &out); err != nil {
		return models.ConnectivityReport{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s failed with status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}

	return nil
}
