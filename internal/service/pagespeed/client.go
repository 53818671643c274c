package pagespeed

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Constants for API configuration
const (
	// DefaultTimeout is the hard ceiling on a single upstream call.
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit is the upstream request budget in requests per second.
	DefaultRateLimit = 5
)

// Client issues audit requests against the provider endpoint. Every call is
// rate limited and bounded by the configured timeout; there are no retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-call timeout ceiling.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit sets the upstream rate limit in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps*2))
		}
	}
}

// NewClient creates a client for the given provider endpoint. An empty
// apiKey selects the provider's unauthenticated, lower-quota mode.
func NewClient(baseURL, apiKey string, options ...ClientOption) *Client {
	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit*2),
		timeout:    DefaultTimeout,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Fetch performs one upstream call for the given request and returns the
// raw success payload. Failures come back already classified.
func (c *Client) Fetch(ctx context.Context, req AnalysisRequest) ([]byte, error) {
	requestURL, err := c.requestURL(req)
	if err != nil {
		return nil, internalError("invalid audit provider URL", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyTransport(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, internalError("failed to build upstream request", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) requestURL(req AnalysisRequest) (string, error) {
	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	apiURL.RawQuery = req.Query(c.apiKey).Encode()
	return apiURL.String(), nil
}
