package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL         = "https://www.thecocktaildb.com/api/json/v1/1"
	defaultTimeout         = 15 * time.Second
	defaultRequestInterval = 500 * time.Millisecond
	maxResponseBytes       = 8 << 20
)

// ClientConfig describes how the recipe API client should be initialised.
type ClientConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RequestInterval time.Duration
	HTTPClient      *http.Client
}

// Client fetches drink records from the recipe REST API. Requests are spaced
// by the configured interval.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a Client, filling unset fields with defaults.
func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("importer: invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = defaultRequestInterval
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// FetchByLetter calls search.php?f=<letter>.
func (c *Client) FetchByLetter(ctx context.Context, letter rune) ([]RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("importer: wait for rate limit: %w", err)
	}

	endpoint := c.baseURL + "/search.php?f=" + url.QueryEscape(string(letter))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("importer: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("importer: perform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("importer: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("importer: request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("importer: decode response: %w", err)
	}
	return parsed.Drinks, nil
}

var errNoSource = errors.New("importer: no record source configured")
