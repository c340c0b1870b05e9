package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Match is the part of a search hit that matched the query.
type Match struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

// Candidate is one entity returned by wbsearchentities.
type Candidate struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	ConceptURI  string `json:"concepturi,omitempty"`
	Match       Match  `json:"match"`
}

type searchResponse struct {
	Search []Candidate `json:"search"`
	Error  *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

// Search returns the items whose label or alias matches name, in the order
// the service ranks them. An empty slice means no match.
func (c *Client) Search(ctx context.Context, name string) ([]Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []Candidate{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("type", "item")
	params.Set("format", "json")
	params.Set("search", name)
	params.Set("language", c.language)
	params.Set("uselang", c.language)
	params.Set("limit", strconv.Itoa(c.searchLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, "wbsearchentities"); err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}
	if result.Error != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   "wbsearchentities",
			Message:    result.Error.Code + ": " + result.Error.Info,
		}
	}
	if result.Search == nil {
		return []Candidate{}, nil
	}
	return result.Search, nil
}
