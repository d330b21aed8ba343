// ABOUTME: Access-key lookup and issuance on the knowledge-base service.
// ABOUTME: A collection holds at most one key; an empty string means absent.

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetAccessKey returns the access key issued for a collection, or an
// empty string when none has been issued yet. The service responds with a
// JSON string, or null when no key exists.
func (c *Client) GetAccessKey(ctx context.Context, collection string) (string, error) {
	var key *string
	endpoint := c.kbURL + "/admin/" + url.PathEscape(collection)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &key); err != nil {
		return "", fmt.Errorf("fetching access key for %q: %w", collection, err)
	}
	if key == nil {
		return "", nil
	}
	return *key, nil
}

// IssueAccessKey requests key creation for a collection and returns the
// issued key. The service rejects issuance when a key already exists;
// that surfaces as a normal server error.
func (c *Client) IssueAccessKey(ctx context.Context, collection string) (string, error) {
	var key string
	endpoint := c.kbURL + "/admin/" + url.PathEscape(collection)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, struct{}{}, &key); err != nil {
		return "", fmt.Errorf("issuing access key for %q: %w", collection, err)
	}
	return key, nil
}
