// Package competitionsuite provides the HTTP client for the competitionsuite
// results API that publishes DCI recaps.
//
// The API is unauthenticated. Two endpoints are used: the competitions list
// for a season and the per-competition performances breakdown. Requests are
// paced by a token bucket limiter and are never retried.
package competitionsuite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the versioned API root.
	DefaultBaseURL = "https://api.competitionsuite.com/2018-03"

	competitionsPath = "/competitions"
	performancesPath = "/performances"
)

// Client is the HTTP client for competitionsuite endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a competitionsuite client with rate limiting.
func NewClient(baseURL, userAgent string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// ListEvents returns the season's competitions in upstream order. The list
// is rejected as a whole if any entry lacks an identifier.
func (c *Client) ListEvents(ctx context.Context, year int) ([]Event, error) {
	params := url.Values{"year": {strconv.Itoa(year)}}

	var events []Event
	if err := c.get(ctx, competitionsPath, params, &events); err != nil {
		return nil, err
	}

	for i, ev := range events {
		if ev.ID == "" {
			return nil, &FetchError{
				Path: competitionsPath,
				Err:  fmt.Errorf("event %d (%q) has no CompetitionGuid", i, ev.Name),
			}
		}
	}

	c.logger.Debug("listed competitions", "year", year, "count", len(events))
	return events, nil
}

// FetchDetail returns the performances breakdown for one competition.
func (c *Client) FetchDetail(ctx context.Context, eventID string) (Detail, error) {
	if eventID == "" {
		return nil, &FetchError{Path: performancesPath, Err: errors.New("empty competition id")}
	}
	params := url.Values{"c": {eventID}}

	var detail Detail
	if err := c.get(ctx, performancesPath, params, &detail); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched performances", "competition", eventID, "groups", len(detail))
	return detail, nil
}

// get performs a rate-limited GET request and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Path: path, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{Path: path, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Path: path, Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Path: path, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Path: path, StatusCode: resp.StatusCode, Err: errors.New(truncate(body, 200))}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
