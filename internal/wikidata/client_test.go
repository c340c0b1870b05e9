package wikidata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const streptomycinResult = `{
  "head": {"vars": ["article", "articleLabel", "volume", "pages", "publicationDate"]},
  "results": {"bindings": [{
    "article": {"type": "uri", "value": "http://www.wikidata.org/entity/Q56050785"},
    "articleLabel": {"type": "literal", "xml:lang": "en", "value": "Streptomycin"},
    "volume": {"type": "literal", "value": "176"},
    "pages": {"type": "literal", "value": "223-228"},
    "publicationDate": {"type": "literal", "datatype": "http://www.w3.org/2001/XMLSchema#dateTime", "value": "1948-01-01T00:00:00Z"}
  }]}
}`

func newTestClient(server *httptest.Server, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithSearchEndpoint(server.URL + "/w/api.php"),
		WithSPARQLEndpoint(server.URL + "/sparql"),
		WithRetry(5, time.Millisecond),
		WithRateLimit(1000),
		WithUserAgent("wpf-test/0.1"),
	}
	return NewClient(append(base, opts...)...)
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/w/api.php" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		for key, want := range map[string]string{
			"action":   "wbsearchentities",
			"type":     "item",
			"format":   "json",
			"search":   "Quad. Nutr.",
			"language": "en",
			"uselang":  "en",
			"limit":    "10",
		} {
			if got := q.Get(key); got != want {
				t.Errorf("param %s = %q, want %q", key, got, want)
			}
		}
		if got := r.Header.Get("User-Agent"); got != "wpf-test/0.1" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"searchinfo": {"search": "Quad. Nutr."}, "search": [
			{"id": "Q100", "label": "Quaderni della nutrizione", "description": "journal",
			 "concepturi": "http://www.wikidata.org/entity/Q100",
			 "match": {"type": "alias", "language": "en", "text": "Quad. Nutr."}},
			{"id": "Q200", "label": "Quadrant", "match": {"type": "label", "language": "en", "text": "Quadrant"}}
		], "success": 1}`)
	}))
	defer server.Close()

	candidates, err := newTestClient(server).Search(context.Background(), "  Quad. Nutr. ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Search() returned %d candidates, want 2", len(candidates))
	}
	first := candidates[0]
	if first.ID != "Q100" || first.Label != "Quaderni della nutrizione" || first.Match.Text != "Quad. Nutr." {
		t.Errorf("first candidate = %+v", first)
	}
	if first.ConceptURI != "http://www.wikidata.org/entity/Q100" {
		t.Errorf("ConceptURI = %q", first.ConceptURI)
	}
}

func TestSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"searchinfo": {"search": "zzz"}, "search": [], "success": 1}`)
	}))
	defer server.Close()

	candidates, err := newTestClient(server).Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if candidates == nil || len(candidates) != 0 {
		t.Errorf("Search() = %v, want empty non-nil slice", candidates)
	}
}

func TestSearch_BlankNameSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	candidates, err := newTestClient(server).Search(context.Background(), "   ")
	if err != nil || len(candidates) != 0 {
		t.Errorf("Search() = %v, %v", candidates, err)
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times, want 0", calls.Load())
	}
}

func TestSearch_APIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": {"code": "param-missing", "info": "The search parameter must be set."}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server).Search(context.Background(), "Nature")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Search() error = %v, want *APIError", err)
	}
}

func TestExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/sparql" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/sparql-results+json" {
			t.Errorf("Accept = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("query"); got != "SELECT * WHERE {}" {
			t.Errorf("query = %q", got)
		}
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, streptomycinResult)
	}))
	defer server.Close()

	result, err := newTestClient(server).Execute(context.Background(), "SELECT * WHERE {}")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", result.Len())
	}
	if got := result.Results.Bindings[0].Value("articleLabel"); got != "Streptomycin" {
		t.Errorf("articleLabel = %q", got)
	}
}

func TestExecute_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			fmt.Fprint(w, streptomycinResult)
		}
	}))
	defer server.Close()

	result, err := newTestClient(server).Execute(context.Background(), "SELECT * WHERE {}")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.IsEmpty() {
		t.Error("Execute() result is empty")
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}

func TestExecute_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "MalformedQueryException")
	}))
	defer server.Close()

	_, err := newTestClient(server).Execute(context.Background(), "SELECT nonsense")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("Execute() error = %v, want 400 APIError", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestExecute_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server, WithRetry(3, time.Millisecond)).Execute(context.Background(), "SELECT * WHERE {}")
	if !IsTransient(err) {
		t.Fatalf("Execute() error = %v, want transient error", err)
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}

func TestExecute_ContextCancelStopsRetrying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestClient(server, WithRetry(1000, 20*time.Millisecond)).Execute(ctx, "SELECT * WHERE {}")
	if err == nil {
		t.Fatal("Execute() error = nil, want cancellation")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Execute() took %s after cancellation", elapsed)
	}
}

func TestExecute_EmptyQuery(t *testing.T) {
	c := NewClient()
	if _, err := c.Execute(context.Background(), "  "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Execute() error = %v, want ErrEmptyQuery", err)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", &APIError{StatusCode: 429}, true},
		{"server error", &APIError{StatusCode: 503}, true},
		{"bad request", &APIError{StatusCode: 400}, false},
		{"network", fmt.Errorf("%w: connection reset", ErrNetworkError), true},
		{"invalid response", ErrInvalidResponse, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}
