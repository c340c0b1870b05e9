package sparql

import (
	"net/url"
	"slices"
)

const (
	// QueryServiceURL is the public Wikidata Query Service UI.
	QueryServiceURL = "https://query.wikidata.org/"

	// EntityBaseURL prefixes Wikidata item IDs to form concept URIs.
	EntityBaseURL = "http://www.wikidata.org/entity/"
)

// CanonicalVars is the result header produced by the article query.
var CanonicalVars = []string{"article", "articleLabel", "volume", "pages", "publicationDate"}

// Term is a single RDF term in a SPARQL JSON result row.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding is one result row keyed by variable name.
type Binding map[string]Term

// Value returns the lexical value bound to name, or "" if unbound.
func (b Binding) Value(name string) string {
	return b[name].Value
}

// Head lists the projected variables.
type Head struct {
	Vars []string `json:"vars"`
}

// Results holds the result rows.
type Results struct {
	Bindings []Binding `json:"bindings"`
}

// Result is the application/sparql-results+json document returned by WDQS.
type Result struct {
	Head    Head    `json:"head"`
	Results Results `json:"results"`
}

// EmptyResult returns the result WDQS sends when the article query matches nothing.
func EmptyResult() *Result {
	return &Result{
		Head:    Head{Vars: slices.Clone(CanonicalVars)},
		Results: Results{Bindings: []Binding{}},
	}
}

// IsEmpty reports whether r is nil or has no rows. It is safe on a nil receiver.
func (r *Result) IsEmpty() bool {
	return r == nil || len(r.Results.Bindings) == 0
}

// IsCanonicalEmpty reports whether r has exactly the shape of EmptyResult.
func (r *Result) IsCanonicalEmpty() bool {
	if r == nil {
		return false
	}
	return len(r.Results.Bindings) == 0 && slices.Equal(r.Head.Vars, CanonicalVars)
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Results.Bindings)
}

// QueryLink returns a link that opens query in the WDQS web UI.
func QueryLink(query string) string {
	return QueryServiceURL + "#" + url.PathEscape(query)
}

// EntityLink returns the concept URI for a Wikidata item ID.
func EntityLink(qid string) string {
	return EntityBaseURL + qid
}
