package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Health() (map[string]interface{}, error) {
	return c.do(http.MethodGet, "/healthz", nil)
}

func (c *Client) Dashboard() (map[string]interface{}, error) {
	return c.do(http.MethodGet, "/api/v1/dashboard", nil)
}

func (c *Client) Nodes() (map[string]interface{}, error) {
	return c.do(http.MethodGet, "/api/v1/nodes", nil)
}

func (c *Client) ListServers() (map[string]interface{}, error) {
	return c.do(http.MethodGet, "/api/v1/servers", nil)
}

func (c *Client) AddServer(server map[string]interface{}) (map[string]interface{}, error) {
	return c.do(http.MethodPost, "/api/v1/servers", server)
}

func (c *Client) RemoveServer(id string) error {
	_, err := c.do(http.MethodDelete, fmt.Sprintf("/api/v1/servers/%s", id), nil)
	return err
}

func (c *Client) TestServer(id string) (map[string]interface{}, error) {
	return c.do(http.MethodPost, fmt.Sprintf("/api/v1/servers/%s/test", id), nil)
}

func (c *Client) ServerMetrics(id string) (map[string]interface{}, error) {
	return c.do(http.MethodGet, fmt.Sprintf("/api/v1/servers/%s/metrics", id), nil)
}

func (c *Client) do(method, path string, payload map[string]interface{}) (map[string]interface{}, error) {
	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result, nil
}
