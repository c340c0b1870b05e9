package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/avast/retry-go/v4"

	"github.com/dpriskorn/WikidataPaperFinder/internal/sparql"
)

// Execute runs query on the SPARQL endpoint and returns the decoded result.
// Throttling, server errors and connection failures are retried with a fixed
// delay until the attempt budget is spent or ctx is done.
func (c *Client) Execute(ctx context.Context, query string) (*sparql.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	var result *sparql.Result
	err := retry.Do(
		func() error {
			r, err := c.executeOnce(ctx, query)
			if err != nil {
				return err
			}
			result = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("query service request failed, retrying",
				"attempt", n+1,
				"delay", c.retryDelay,
				"error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) executeOnce(ctx context.Context, query string) (*sparql.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	form := url.Values{}
	form.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sparqlEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, "sparql"); err != nil {
		return nil, err
	}

	var result sparql.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: parsing SPARQL results: %v", ErrInvalidResponse, err)
	}
	return &result, nil
}
