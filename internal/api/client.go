// ABOUTME: Shared HTTP plumbing for the channel and knowledge-base services.
// ABOUTME: Builds authenticated requests and turns non-2xx responses into errors.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Client issues requests against the channel service and the
// knowledge-base service. It is safe for concurrent use.
type Client struct {
	channelURL string
	kbURL      string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for the two service base URLs. Trailing slashes on
// the base URLs are tolerated. An empty token disables the Authorization
// header.
func New(channelURL, kbURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		channelURL: strings.TrimRight(channelURL, "/"),
		kbURL:      strings.TrimRight(kbURL, "/"),
		token:      token,
		httpClient: http.DefaultClient,
		logger:     logger.With("component", "api"),
	}
}

// newRequest builds a request with auth and accept headers applied.
func (c *Client) newRequest(ctx context.Context, method, url, contentType string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doJSON executes a request with an optional JSON body and decodes the
// JSON response into out (skipped when out is nil).
func (c *Client) doJSON(ctx context.Context, method, url string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, url, contentType, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// checkStatus returns an error for non-2xx responses, carrying the
// server's error text when the body yields one.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg := readErrorBody(resp.Body)
	if msg == "" {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("server returned status %d: %s", resp.StatusCode, msg)
}

// readErrorBody extracts error text from a failed response best-effort.
// Bodies are capped to keep a misbehaving server from flooding logs.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
