package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dpriskorn/WikidataPaperFinder/internal/resolver"
	"github.com/dpriskorn/WikidataPaperFinder/internal/sparql"
	"github.com/dpriskorn/WikidataPaperFinder/internal/wikidata"
)

func TestCollectReferences(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "citations.txt")
	content := "# from the 1948 review\nRuffo, A. (1948). Quad. Nutr. 10, 283.\n\n  Schatz, A. (1944). Proc. Soc. Exp. Biol. Med. 55, 66.  \n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		file  string
		stdin string
		want  []string
	}{
		{
			name: "args joined",
			args: []string{"Ruffo, A. (1948).", "Quad. Nutr. 10, 283."},
			want: []string{"Ruffo, A. (1948). Quad. Nutr. 10, 283."},
		},
		{
			name: "file",
			file: file,
			want: []string{"Ruffo, A. (1948). Quad. Nutr. 10, 283.", "Schatz, A. (1944). Proc. Soc. Exp. Biol. Med. 55, 66."},
		},
		{
			name:  "stdin",
			file:  "-",
			stdin: "Nature 1\n\nNature 2\n",
			want:  []string{"Nature 1", "Nature 2"},
		},
		{
			name: "nothing",
			args: []string{"  "},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collectReferences(tt.args, tt.file, "", strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("collectReferences() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("collectReferences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectReferences_MissingFile(t *testing.T) {
	_, err := collectReferences(nil, filepath.Join(t.TempDir(), "nope.txt"), "", strings.NewReader(""))
	if err == nil {
		t.Error("collectReferences() error = nil for missing file")
	}
}

func TestFormatRecordHuman(t *testing.T) {
	rec := &resolver.Record{
		ReferenceText:  "Ruffo, A. (1948). Quad. Nutr. 10, 283.",
		JournalName:    "Quad. Nutr.",
		Year:           1948,
		Volume:         "10",
		Pages:          "283",
		JournalQID:     "Q100",
		JournalLabelEn: "Quaderni della nutrizione",
		SPARQLQuery:    "SELECT ?article WHERE {}",
		QueryExecuted:  true,
		QueryResult: &sparql.Result{Results: sparql.Results{Bindings: []sparql.Binding{{
			"article":      {Value: "http://www.wikidata.org/entity/Q1"},
			"articleLabel": {Value: "Sull'azione della streptomicina"},
		}}}},
		Status: resolver.StatusSuccess,
	}

	out := formatRecordHuman(rec)
	for _, want := range []string{
		"Status:    Success, results were found",
		"Cited as:  Quad. Nutr. 1948, vol. 10, p. 283",
		"Journal:   Quaderni della nutrizione (http://www.wikidata.org/entity/Q100)",
		"Query:     https://query.wikidata.org/#",
		"http://www.wikidata.org/entity/Q1  Sull'azione della streptomicina",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatRecordHuman_Failed(t *testing.T) {
	out := formatRecordHuman(&resolver.Record{ReferenceText: "???", Status: resolver.StatusNoJournal})
	if strings.Contains(out, "Journal:") || strings.Contains(out, "Query:") {
		t.Errorf("unresolved record printed links:\n%s", out)
	}
}

func TestFormatLookupHuman(t *testing.T) {
	accepted := wikidata.Candidate{ID: "Q100", Label: "Quaderni della nutrizione", Match: wikidata.Match{Type: "alias", Text: "Quad. Nutr."}}
	resp := LookupResponse{
		Name: "Quad. Nutr.",
		Candidates: []wikidata.Candidate{
			{ID: "Q300", Label: "Quadrant", Description: "magazine"},
			accepted,
		},
		Accepted: &accepted,
	}

	out := formatLookupHuman(resp)
	if !strings.Contains(out, "* Q100") || !strings.Contains(out, "[alias: Quad. Nutr.]") {
		t.Errorf("accepted candidate not marked:\n%s", out)
	}
	if !strings.Contains(out, "  Q300") || !strings.Contains(out, "- magazine") {
		t.Errorf("other candidate missing:\n%s", out)
	}

	empty := formatLookupHuman(LookupResponse{Name: "zzz"})
	if !strings.Contains(empty, `No Wikidata items found for "zzz"`) {
		t.Errorf("empty lookup output = %q", empty)
	}
}
