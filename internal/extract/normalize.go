package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidData indicates a required key is missing from the reply.
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidYear indicates the year is not a positive integer.
	ErrInvalidYear = errors.New("invalid year")
)

// Fields are the normalized citation values derived from a Response.
type Fields struct {
	Journal   string `json:"journal"`
	Year      int    `json:"year"`
	Volume    string `json:"volume"`
	Pages     string `json:"pages"`
	StartPage string `json:"start_page"`
}

// dashReplacer maps the dash variants left after NFKC to an ASCII hyphen.
var dashReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
)

// Normalize derives typed fields from r. The journal name is kept verbatim
// apart from surrounding whitespace. Each field is derived on its own: on
// error the returned Fields still carry every value that could be read.
func Normalize(r *Response) (Fields, error) {
	if r == nil {
		return Fields{}, fmt.Errorf("%w: no response", ErrInvalidData)
	}
	if r.IsError() {
		return Fields{}, fmt.Errorf("%w: %s", ErrInvalidData, r.Error)
	}

	var f Fields
	if journal, ok := r.Get(KeyJournal); ok {
		f.Journal = strings.TrimSpace(journal)
	}
	if volume, ok := r.Get(KeyVolume); ok {
		f.Volume = strings.TrimSpace(volume)
	}
	if pages, ok := r.Get(KeyPages); ok {
		f.Pages = NormalizePages(pages)
		f.StartPage = StartPage(f.Pages)
	}

	var yearErr error
	if yearText, ok := r.Get(KeyYear); ok {
		f.Year, yearErr = ParseYear(yearText)
	}

	if missing := r.Missing(); len(missing) > 0 {
		return f, fmt.Errorf("%w: missing %s", ErrInvalidData, strings.Join(missing, ", "))
	}
	if yearErr != nil {
		return f, yearErr
	}
	return f, nil
}

// ParseYear parses a publication year. Zero and negative values are rejected.
func ParseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return year, nil
}

// NormalizePages folds compatibility characters and turns every dash
// variant into an ASCII hyphen, so "1141–1145" becomes "1141-1145".
func NormalizePages(pages string) string {
	pages = norm.NFKC.String(pages)
	pages = dashReplacer.Replace(pages)
	return strings.TrimSpace(pages)
}

// StartPage returns the part of pages before the first hyphen, or pages
// itself when there is no range.
func StartPage(pages string) string {
	if i := strings.Index(pages, "-"); i >= 0 {
		return strings.TrimSpace(pages[:i])
	}
	return strings.TrimSpace(pages)
}
