package samplegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/internal/domain/model"
)

// contentTypes maps input formats to the media type sent with the body.
var contentTypes = map[source.Format]string{
	source.CSV:  "text/csv",
	source.XLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	source.JSON: "application/json",
}

// HTTPClient wraps http.Client with a base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the server at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// CleanResult is the decoded body of a clean request.
type CleanResult struct {
	Count int         `json:"count"`
	Rows  []model.Row `json:"rows"`
}

// Health checks the service health endpoint.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// Clean posts a table to /v1/clean and decodes the cleaned rows.
func (c *HTTPClient) Clean(ctx context.Context, format source.Format, body []byte) (*CleanResult, error) {
	resp, err := c.post(ctx, "/v1/clean", url.Values{"format": {string(format)}}, format, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out CleanResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode clean response: %w", err)
	}
	return &out, nil
}

// Chart posts a table to /v1/chart and copies the returned image to w.
func (c *HTTPClient) Chart(ctx context.Context, format source.Format, image string, body []byte, w io.Writer) (int64, error) {
	q := url.Values{"format": {string(format)}}
	if image != "" {
		q.Set("image", image)
	}
	resp, err := c.post(ctx, "/v1/chart", q, format, body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(w, resp.Body)
}

func (c *HTTPClient) post(ctx context.Context, path string, q url.Values, format source.Format, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypes[format])

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrUnexpectedStatus, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	return resp, nil
}
