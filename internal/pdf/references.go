// Package pdf pulls the reference list out of a paper so each entry can be
// resolved on its own.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// referencesHeading matches the line that opens a bibliography.
var referencesHeading = regexp.MustCompile(`(?i)^\s*(\d+\.?\s*)?(references|bibliography|literature cited|works cited)\s*:?\s*$`)

// entryMarker matches a line that starts a new numbered entry: "[12]", "12." or "12)".
var entryMarker = regexp.MustCompile(`^\s*(\[\d{1,4}\]|\d{1,4}[.)])\s+`)

var yearPattern = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)

// ExtractText extracts the plain text of every page of a PDF.
func ExtractText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// ExtractReferences returns the reference entries found in a PDF.
func ExtractReferences(filePath string) ([]string, error) {
	text, err := ExtractText(filePath)
	if err != nil {
		return nil, err
	}
	return SplitReferences(text), nil
}

// SplitReferences finds the reference section of text and splits it into
// entries. Text before a references heading is ignored; without a heading
// the whole text is used. Wrapped lines are joined, and only entries that
// mention a plausible year are kept.
func SplitReferences(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	// Use the last heading; tables of contents also say "References".
	start := 0
	for i, line := range lines {
		if referencesHeading.MatchString(line) {
			start = i + 1
		}
	}
	lines = lines[start:]

	numbered := false
	for _, line := range lines {
		if entryMarker.MatchString(line) {
			numbered = true
			break
		}
	}

	var entries []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		entry := joinWrapped(current)
		current = nil
		if yearPattern.MatchString(entry) {
			entries = append(entries, entry)
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case numbered && entryMarker.MatchString(line):
			flush()
			current = append(current, entryMarker.ReplaceAllString(line, ""))
		case trimmed == "":
			if !numbered {
				flush()
			}
		default:
			current = append(current, trimmed)
		}
	}
	flush()

	return entries
}

// joinWrapped joins the lines of one entry, undoing end-of-line hyphenation.
func joinWrapped(lines []string) string {
	var sb strings.Builder
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i > 0 && sb.Len() > 0 {
			prev := sb.String()
			if strings.HasSuffix(prev, "-") && len(prev) > 1 && isLetter(prev[len(prev)-2]) && isLower(line[0]) {
				s := prev[:len(prev)-1]
				sb.Reset()
				sb.WriteString(s)
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(line)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}
