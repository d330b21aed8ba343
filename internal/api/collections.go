// ABOUTME: Collection CRUD against the knowledge-base service.
// ABOUTME: Collection names are the primary identifier and are URL-escaped.

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListCollections fetches all collections from the knowledge-base service.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	var collections []Collection
	if err := c.doJSON(ctx, http.MethodGet, c.kbURL+"/collections", nil, &collections); err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return collections, nil
}

// CreateCollection creates a new named collection. Name and description
// validation happens before this call; the client submits them as given.
func (c *Client) CreateCollection(ctx context.Context, name, description string) error {
	payload := Collection{Name: name, Description: description}
	if err := c.doJSON(ctx, http.MethodPost, c.kbURL+"/collections", payload, nil); err != nil {
		return fmt.Errorf("creating collection %q: %w", name, err)
	}
	return nil
}

// DeleteCollection removes a collection by name.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	endpoint := c.kbURL + "/collections/" + url.PathEscape(name)
	if err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}
	return nil
}
