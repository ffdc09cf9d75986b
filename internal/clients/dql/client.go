// Package dql provides a client for submitting pipeline queries to the
// external analytics query engine and decoding its result records.
package dql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrQueryFailed marks errors reported by the query engine itself, as
// opposed to transport failures. Callers use errors.Is to distinguish a
// failed query from an empty result.
var ErrQueryFailed = errors.New("query failed")

// Client implements HTTP interaction with the query engine's execute endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new query engine client.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type executeRequest struct {
	Query string `json:"query"`
}

type executeResponse struct {
	Records []Row `json:"records"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Execute submits a pipeline query and returns its result rows. An engine
// reported failure yields an error wrapping ErrQueryFailed; an empty result
// yields an empty (non-nil) slice.
func (c *Client) Execute(ctx context.Context, query string) ([]Row, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/api/v1/query:execute"

	payload, err := json.Marshal(executeRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Api-Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query engine request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Query engine returned non-OK status", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrQueryFailed, resp.StatusCode)
	}

	var result executeResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse query response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, result.Error.Message)
	}

	if result.Records == nil {
		return []Row{}, nil
	}
	return result.Records, nil
}
