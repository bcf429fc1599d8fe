// Package objectstore performs the raw byte transfer to a presigned
// object-storage URL. This is a separate failure domain from the main
// backend: no structured error body is guaranteed, so failures are typed as
// *TransferError rather than classified backend errors.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Alijeyrad/simorq_mobile/config"
)

// TransferError describes a failed byte transfer. StatusCode is zero when no
// response was received at all.
type TransferError struct {
	StatusCode int
	Err        error
}

func (e *TransferError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("object storage transfer failed: %v", e.Err)
	}
	return fmt.Sprintf("object storage transfer failed with status %d", e.StatusCode)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Client uploads file bytes to presigned URLs.
type Client struct {
	httpClient *http.Client
}

// New creates a Client from upload config.
func New(cfg config.UploadConfig) *Client {
	timeout := time.Duration(cfg.TransferTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Put transfers body to the presigned URL with the declared content type.
// The URL carries its own authorization; no bearer header is sent.
func (c *Client) Put(ctx context.Context, uploadURL, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(body))
	if err != nil {
		return &TransferError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &TransferError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &TransferError{StatusCode: res.StatusCode}
	}
	return nil
}
