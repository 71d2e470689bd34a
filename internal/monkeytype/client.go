// Package monkeytype is a thin client for the MonkeyType scoreboard API.
package monkeytype

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/typebadge/typebadge/internal/model"
)

const (
	defaultBase      = "https://monkeytype.com/api"
	defaultUserAgent = "github-action/monkeytype-badge"
	defaultTimeout   = 15 * time.Second
)

// Client talks to the scoreboard endpoint.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// New creates a Client with the default timeout and endpoint.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		baseURL:   defaultBase,
		userAgent: defaultUserAgent,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchRuns returns the recent runs for a user. The payload must be a JSON
// array; entries that are not objects and fields that are not numeric are
// skipped individually.
func (c *Client) FetchRuns(ctx context.Context, username string) ([]model.Run, error) {
	q := url.Values{}
	q.Set("user", username)
	u := c.baseURL + "/scoreboard?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{Status: res.StatusCode, URL: u}
	}

	var entries []any
	if err := json.NewDecoder(res.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard: %w", err)
	}
	return parseRuns(entries), nil
}
