// ABOUTME: Channel-config CRUD against the channel service /admin endpoints.
// ABOUTME: Create and update return the server's authoritative entity.

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListChannels fetches every channel config the service knows about.
func (c *Client) ListChannels(ctx context.Context) ([]ChannelConfig, error) {
	var channels []ChannelConfig
	if err := c.doJSON(ctx, http.MethodGet, c.channelURL+"/admin", nil, &channels); err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	return channels, nil
}

// CreateChannel submits a new channel config. The payload must not carry
// an ID; the returned entity carries the server-assigned one.
func (c *Client) CreateChannel(ctx context.Context, cfg *ChannelConfig) (*ChannelConfig, error) {
	var created ChannelConfig
	if err := c.doJSON(ctx, http.MethodPost, c.channelURL+"/admin", cfg, &created); err != nil {
		return nil, fmt.Errorf("creating channel: %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("creating channel: server response missing id")
	}
	return &created, nil
}

// UpdateChannel replaces the config stored under id with the given fields
// and returns the server's updated entity.
func (c *Client) UpdateChannel(ctx context.Context, id string, cfg *ChannelConfig) (*ChannelConfig, error) {
	var updated ChannelConfig
	endpoint := c.channelURL + "/admin/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPut, endpoint, cfg, &updated); err != nil {
		return nil, fmt.Errorf("updating channel %s: %w", id, err)
	}
	return &updated, nil
}

// DeleteChannel removes the config stored under id.
func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	endpoint := c.channelURL + "/admin/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("deleting channel %s: %w", id, err)
	}
	return nil
}
