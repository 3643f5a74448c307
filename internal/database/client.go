// Package database provides Supabase integration for the Nutrio backend:
// a PostgREST client, the GoTrue auth client, and per-table repositories.
package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// Client wraps the Supabase REST API.
type Client struct {
	url        string
	anonKey    string
	httpClient *http.Client

	mu          sync.RWMutex
	accessToken string
}

// Config holds Supabase connection configuration.
type Config struct {
	URL        string
	AnonKey    string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client. URL and key fall back to the
// SUPABASE_URL / SUPABASE_ANON_KEY environment variables.
func NewClient(cfg Config) (*Client, error) {
	url := cfg.URL
	if url == "" {
		url = os.Getenv("SUPABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("%w: SUPABASE_URL is required", ErrInvalidInput)
	}

	key := cfg.AnonKey
	if key == "" {
		key = os.Getenv("SUPABASE_ANON_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("%w: SUPABASE_ANON_KEY is required", ErrInvalidInput)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		url:        strings.TrimSuffix(url, "/"),
		anonKey:    key,
		httpClient: httpClient,
	}, nil
}

// SetAccessToken installs a user session token. Subsequent table requests run
// under that user's row-level security instead of the anonymous role.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// ClearAccessToken reverts table requests to the anonymous role.
func (c *Client) ClearAccessToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.accessToken != "" {
		return c.accessToken
	}
	return c.anonKey
}

const (
	maxResponseBytes  = 8 << 20  // 8 MiB
	maxErrorBodyBytes = 32 << 10 // 32 KiB
)

// request makes an HTTP request to the Supabase REST API.
func (c *Client) request(ctx context.Context, method, table string, body interface{}, query string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.url, table)
	if query != "" {
		url += "?" + query
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearerToken())
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		msg := strings.TrimSpace(string(respBody))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: supabase API error %d: %s", ErrUnauthorized, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("supabase API error %d: %s", resp.StatusCode, msg)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return respBody, nil
}
