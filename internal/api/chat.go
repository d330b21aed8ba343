// ABOUTME: Verification chat turn against the channel service.
// ABOUTME: The chat endpoint is the one plain-text response in the API.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// chatRequest is the JSON body sent to POST /chat/{id}.
type chatRequest struct {
	Query string `json:"query"`
}

// SendChat sends one chat turn to the channel identified by id and
// returns the raw response text. Formatting is the caller's concern.
func (c *Client) SendChat(ctx context.Context, id, query string) (string, error) {
	data, err := json.Marshal(chatRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	endpoint := c.channelURL + "/chat/" + url.PathEscape(id)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, "application/json", bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending chat turn: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}
	return string(body), nil
}
