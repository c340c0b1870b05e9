package web

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dpriskorn/WikidataPaperFinder/internal/resolver"
	"github.com/dpriskorn/WikidataPaperFinder/internal/sparql"
)

// articleRow is one result line on the results page.
type articleRow struct {
	Article         string
	ArticleQID      string
	Label           string
	Volume          string
	Pages           string
	PublicationDate string
}

func newResultsView(rec *resolver.Record) gin.H {
	return gin.H{
		"Title":         "WDQS Results",
		"ReferenceText": rec.ReferenceText,
		"Status":        rec.Status,
		"JournalLabel":  rec.JournalLabelEn,
		"JournalQID":    rec.JournalQID,
		"EntityLink":    resolver.EntityLink(rec),
		"QueryLink":     resolver.QueryLink(rec),
		"Rows":          articleRows(rec.QueryResult),
	}
}

func articleRows(result *sparql.Result) []articleRow {
	if result.IsEmpty() {
		return nil
	}
	rows := make([]articleRow, 0, len(result.Results.Bindings))
	for _, b := range result.Results.Bindings {
		article := b.Value("article")
		rows = append(rows, articleRow{
			Article:         article,
			ArticleQID:      strings.TrimPrefix(article, sparql.EntityBaseURL),
			Label:           b.Value("articleLabel"),
			Volume:          b.Value("volume"),
			Pages:           b.Value("pages"),
			PublicationDate: dateOnly(b.Value("publicationDate")),
		})
	}
	return rows
}

// dateOnly trims an xsd:dateTime to its date part.
func dateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}
