package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrStoreUnavailable is returned when the store responds with anything other
// than a success or a not-found, or cannot be reached at all.
var ErrStoreUnavailable = errors.New("kv store unavailable")

const (
	// apiKeyHeader is the header the store reads the API key from.
	apiKeyHeader = "X-Api-Key"

	// defaultTimeout bounds a single request when the caller's context does not.
	defaultTimeout = 10 * time.Second
)

// Client is the HTTP client for the remote key-value store.
//
// The store exposes no true delete; Delete writes an empty value and readers
// must treat an empty string as absent.
type Client struct {
	// l is the logger.
	l *slog.Logger

	// baseURL is the base URL of the store.
	baseURL string

	// apiKey is the optional API key sent with every request.
	apiKey string

	// http is the underlying HTTP client.
	http *http.Client

	// limiter paces outbound requests to the store.
	limiter *rate.Limiter
}

// NewClient creates a new store client.
func NewClient(l *slog.Logger, baseURL, apiKey string) *Client {
	return &Client{
		l:       l,
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(50), 10),
	}
}

// getResponse is the body of a successful get.
type getResponse struct {
	Value string `json:"value"`
}

// setRequest is the body of a set.
type setRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// sizeResponse is the body of a size query.
type sizeResponse struct {
	Size int64 `json:"size"`
}

// Get fetches the value for a key. A missing key (404 from the store) or a
// tombstoned key (empty value) reports found as false with a nil error.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/get/"+url.PathEscape(key), nil)
	if err != nil {
		return "", false, err
	}
	defer closeBody(c.l, resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", false, fmt.Errorf("%w: get %s returned status %d", ErrStoreUnavailable, key, resp.StatusCode)
	}

	body := new(getResponse)
	if err := json.NewDecoder(resp.Body).Decode(body); err != nil {
		return "", false, fmt.Errorf("%w: decoding get response: %v", ErrStoreUnavailable, err)
	}

	if body.Value == "" {
		// Tombstone left by Delete.
		return "", false, nil
	}
	return body.Value, true, nil
}

// Set writes a value for a key.
func (c *Client) Set(ctx context.Context, key, value string) error {
	payload, err := json.Marshal(setRequest{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("error marshaling set request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/set", payload)
	if err != nil {
		return err
	}
	defer closeBody(c.l, resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: set %s returned status %d", ErrStoreUnavailable, key, resp.StatusCode)
	}
	return nil
}

// Delete removes a key by writing an empty value over it.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.Set(ctx, key, "")
}

// Size returns the number of keys the store reports.
func (c *Client) Size(ctx context.Context) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, "/size", nil)
	if err != nil {
		return 0, err
	}
	defer closeBody(c.l, resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: size returned status %d", ErrStoreUnavailable, resp.StatusCode)
	}

	body := new(sizeResponse)
	if err := json.NewDecoder(resp.Body).Decode(body); err != nil {
		return 0, fmt.Errorf("%w: decoding size response: %v", ErrStoreUnavailable, err)
	}
	return body.Size, nil
}

// Health probes the store's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer closeBody(c.l, resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: health returned status %d", ErrStoreUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("error waiting for rate limiter: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return resp, nil
}

func closeBody(l *slog.Logger, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		l.Error("Error closing response body", slog.String("err", err.Error()))
	}
}
