// ABOUTME: Document listing, multipart upload and deletion for a collection.
// ABOUTME: Uploads send the whole batch as one multipart request.

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// UploadFile is one file in an upload batch. The reader is consumed
// during the request; callers keep ownership of closing it.
type UploadFile struct {
	Filename string
	Reader   io.Reader
}

// ListDocuments fetches the document filenames stored in a collection.
// Ordering is whatever the server returns; the collection manager sorts.
func (c *Client) ListDocuments(ctx context.Context, collection string) ([]string, error) {
	var docs []string
	endpoint := c.kbURL + "/documents/" + url.PathEscape(collection)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &docs); err != nil {
		return nil, fmt.Errorf("listing documents in %q: %w", collection, err)
	}
	return docs, nil
}

// UploadDocuments sends a file batch to a collection as a single
// multipart request. Batch-size limits are enforced by the caller before
// any network activity happens here.
func (c *Client) UploadDocuments(ctx context.Context, collection string, files []UploadFile) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile("file", f.Filename)
		if err != nil {
			return fmt.Errorf("building upload for %q: %w", f.Filename, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("reading %q: %w", f.Filename, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing upload body: %w", err)
	}

	endpoint := c.kbURL + "/documents/" + url.PathEscape(collection)
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, writer.FormDataContentType(), &buf)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("uploading to %q: %w", collection, err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// DeleteDocument removes one document from a collection by filename.
func (c *Client) DeleteDocument(ctx context.Context, collection, filename string) error {
	endpoint := c.kbURL + "/documents/" + url.PathEscape(collection) + "/" + url.PathEscape(filename)
	if err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("deleting document %q: %w", filename, err)
	}
	return nil
}
