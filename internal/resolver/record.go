// Package resolver turns a free-text citation into a Wikidata lookup. A
// Record carries one citation through extraction, normalization, journal
// resolution, query synthesis and execution; the Resolver advances it.
package resolver

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dpriskorn/WikidataPaperFinder/internal/extract"
	"github.com/dpriskorn/WikidataPaperFinder/internal/sparql"
)

// Status messages.
const (
	StatusEmptyResult  = "Got empty result from WDQS"
	StatusSuccess      = "Success, results were found"
	StatusNoReference  = "No reference text to extract from"
	StatusNoJournal    = "No journal name to look up"
	statusInvalidData  = "Invalid data. Required fields: journal, year, volume, pages. '%s'"
	statusInvalidYear  = "Invalid data. Year is not a positive number. '%s'"
	statusQIDNotFound  = "Journal QID not found for '%s'"
	statusLookupFailed = "Journal lookup failed for '%s': %v"
	statusBuildFailed  = "Could not build query: %v"
)

// Record is the state of one citation resolution. Fields are filled in
// pipeline order and never cleared.
type Record struct {
	ID             string            `json:"id"`
	ReferenceText  string            `json:"reference_text"`
	AIResponse     *extract.Response `json:"ai_response,omitempty"`
	JournalName    string            `json:"journal_name,omitempty"`
	Year           int               `json:"year,omitempty"`
	Volume         string            `json:"volume,omitempty"`
	Pages          string            `json:"pages,omitempty"`
	StartPage      string            `json:"start_page,omitempty"`
	JournalQID     string            `json:"journal_qid,omitempty"`
	JournalLabelEn string            `json:"journal_label_en,omitempty"`
	SPARQLQuery    string            `json:"sparql_query,omitempty"`
	QueryResult    *sparql.Result    `json:"query_result,omitempty"`
	QueryExecuted  bool              `json:"query_executed"`
	Status         string            `json:"status"`
}

// NewRecord creates a fresh record for referenceText.
func NewRecord(referenceText string) *Record {
	return &Record{
		ID:            uuid.NewString(),
		ReferenceText: strings.TrimSpace(referenceText),
	}
}

// Executed reports whether the query service has been called for rec, or a
// result was supplied up front.
func Executed(rec *Record) bool {
	return rec.QueryExecuted || rec.QueryResult != nil
}

// EmptyResult reports whether rec has no article bindings. A record whose
// query never ran counts as empty, and so does a result with no rows whose
// header differs from the canonical one; use sparql.Result.IsCanonicalEmpty
// for the strict shape check.
func EmptyResult(rec *Record) bool {
	return rec.QueryResult.IsEmpty()
}

// Succeeded reports whether the query ran and found at least one article.
func Succeeded(rec *Record) bool {
	return Executed(rec) && !EmptyResult(rec)
}

// QueryLink returns the Query Service deep link for rec's query, or "" when
// no query was built.
func QueryLink(rec *Record) string {
	if rec.SPARQLQuery == "" {
		return ""
	}
	return sparql.QueryLink(rec.SPARQLQuery)
}

// EntityLink returns the concept URI of the resolved journal, or "".
func EntityLink(rec *Record) string {
	if rec.JournalQID == "" {
		return ""
	}
	return sparql.EntityLink(rec.JournalQID)
}

// StatusFor derives the final status of an executed record.
func StatusFor(rec *Record) string {
	if EmptyResult(rec) {
		return StatusEmptyResult
	}
	return StatusSuccess
}
