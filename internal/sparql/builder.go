// Package sparql builds Wikidata Query Service queries for citation lookups
// and models the SPARQL JSON results they return.
package sparql

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"
)

const (
	// ProximityWindow is how far (in pages) an article's first page may be
	// from the cited start page and still match.
	ProximityWindow = 15

	// ResultLimit caps the number of rows requested from WDQS.
	ResultLimit = 100
)

// ErrMissingParams is returned by Build when a required parameter is empty.
var ErrMissingParams = errors.New("missing query parameters")

// ErrInvalidParam is returned by Build when a parameter cannot be rendered
// as the literal kind its field requires.
var ErrInvalidParam = errors.New("invalid query parameter")

// Kind is the literal form a bound value is rendered as.
type Kind int

const (
	// KindEntity renders a Wikidata item reference (wd:Q123).
	KindEntity Kind = iota
	// KindInteger renders an unquoted integer literal.
	KindInteger
	// KindString renders a quoted, escaped string literal.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Params are the normalized citation fields bound into the article query.
type Params struct {
	JournalQID string
	Year       int
	Volume     string
	StartPage  string
}

// Param is one named template parameter with the literal kind it must
// be rendered as. Only fields listed by Params.Bindings reach the query.
type Param struct {
	Name  string
	Kind  Kind
	Value string
}

// Bindings returns the whitelisted parameter bindings for p, in template order.
func (p Params) Bindings() []Param {
	year := ""
	if p.Year != 0 {
		year = strconv.Itoa(p.Year)
	}
	return []Param{
		{Name: "Journal", Kind: KindEntity, Value: strings.TrimSpace(p.JournalQID)},
		{Name: "Year", Kind: KindInteger, Value: year},
		{Name: "Volume", Kind: KindString, Value: strings.TrimSpace(p.Volume)},
		{Name: "StartPage", Kind: KindInteger, Value: strings.TrimSpace(p.StartPage)},
	}
}

var qidPattern = regexp.MustCompile(`^Q[1-9][0-9]*$`)

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// Literal renders b as SPARQL source text for its kind.
func (b Param) Literal() (string, error) {
	switch b.Kind {
	case KindEntity:
		if !qidPattern.MatchString(b.Value) {
			return "", fmt.Errorf("%w: %s %q is not an item ID", ErrInvalidParam, b.Name, b.Value)
		}
		return "wd:" + b.Value, nil
	case KindInteger:
		n, err := strconv.Atoi(b.Value)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: %s %q is not a non-negative integer", ErrInvalidParam, b.Name, b.Value)
		}
		return strconv.Itoa(n), nil
	case KindString:
		return `"` + stringEscaper.Replace(b.Value) + `"`, nil
	default:
		return "", fmt.Errorf("%w: %s has unknown kind", ErrInvalidParam, b.Name)
	}
}

// articleQuery finds scholarly articles in a journal by publication year,
// volume and a start page within ProximityWindow of the cited one.
// The first page of an article is the part of P304 before the first hyphen.
var articleQuery = template.Must(template.New("article").Parse(`SELECT ?article ?articleLabel ?volume ?pages ?publicationDate WHERE {
  BIND({{.Year}} AS ?year)
  BIND({{.Volume}} AS ?volume)
  BIND({{.StartPage}} AS ?startPage)
  BIND({{.Window}} AS ?window)

  ?article wdt:P1433 {{.Journal}};
           wdt:P478 ?volume;
           wdt:P304 ?pages;
           wdt:P577 ?publicationDate.

  BIND(xsd:integer(STRBEFORE(CONCAT(?pages, "-"), "-")) AS ?articleStart)

  FILTER(YEAR(?publicationDate) = ?year)
  FILTER(ABS(?articleStart - ?startPage) <= ?window)

  SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en". }
}
ORDER BY ASC(?articleStart)
LIMIT {{.Limit}}
`))

// Build renders the article query for p. The output depends only on p,
// so identical parameters always produce byte-identical queries.
func Build(p Params) (string, error) {
	bindings := p.Bindings()

	var missing []string
	for _, b := range bindings {
		if b.Value == "" {
			missing = append(missing, b.Name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingParams, strings.Join(missing, ", "))
	}

	data := map[string]string{
		"Window": strconv.Itoa(ProximityWindow),
		"Limit":  strconv.Itoa(ResultLimit),
	}
	for _, b := range bindings {
		lit, err := b.Literal()
		if err != nil {
			return "", err
		}
		data[b.Name] = lit
	}

	var sb strings.Builder
	if err := articleQuery.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering query: %w", err)
	}
	return sb.String(), nil
}
