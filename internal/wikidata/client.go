// Package wikidata talks to the Wikidata entity search API and the Wikidata
// Query Service.
package wikidata

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// SearchEndpoint is the MediaWiki action API used for entity search.
	SearchEndpoint = "https://www.wikidata.org/w/api.php"

	// SPARQLEndpoint is the Wikidata Query Service SPARQL endpoint.
	SPARQLEndpoint = "https://query.wikidata.org/sparql"

	// DefaultUserAgent identifies the client to Wikimedia services.
	DefaultUserAgent = "WikidataPaperFinder/1.0 (https://github.com/dpriskorn/WikidataPaperFinder)"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is the request rate shared by both endpoints.
	RateLimit = 5.0

	// DefaultSearchLimit is the number of candidates requested per search.
	DefaultSearchLimit = 10

	// DefaultRetryAttempts and DefaultRetryDelay bound how long Execute keeps
	// trying while the query service is throttling or failing.
	DefaultRetryAttempts = 1000
	DefaultRetryDelay    = 60 * time.Second
)

// Client is a rate-limited HTTP client for Wikidata.
type Client struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	logger         *slog.Logger
	userAgent      string
	searchEndpoint string
	sparqlEndpoint string
	language       string
	searchLimit    int
	retryAttempts  uint
	retryDelay     time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithSearchEndpoint sets a custom entity search URL (for testing).
func WithSearchEndpoint(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.searchEndpoint = url
		}
	}
}

// WithSPARQLEndpoint sets a custom SPARQL endpoint URL (for testing).
func WithSPARQLEndpoint(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.sparqlEndpoint = url
		}
	}
}

// WithLanguage sets the search and display language.
func WithLanguage(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithRetry sets the attempt budget and the fixed delay between attempts
// for query execution.
func WithRetry(attempts uint, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// WithRateLimit sets the maximum requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new Wikidata client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: DefaultTimeout},
		limiter:        rate.NewLimiter(rate.Limit(RateLimit), 1),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		userAgent:      DefaultUserAgent,
		searchEndpoint: SearchEndpoint,
		sparqlEndpoint: SPARQLEndpoint,
		language:       "en",
		searchLimit:    DefaultSearchLimit,
		retryAttempts:  DefaultRetryAttempts,
		retryDelay:     DefaultRetryDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, endpoint string) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Message: ErrRateLimited.Error()}
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return nil
}
