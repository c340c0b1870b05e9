package sparql

import (
	"errors"
	"strings"
	"testing"
)

func validParams() Params {
	return Params{JournalQID: "Q15766870", Year: 1948, Volume: "10", StartPage: "283"}
}

func TestBuild_BindsLiterals(t *testing.T) {
	query, err := Build(validParams())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantLines := []string{
		"BIND(1948 AS ?year)",
		`BIND("10" AS ?volume)`,
		"BIND(283 AS ?startPage)",
		"BIND(15 AS ?window)",
		"?article wdt:P1433 wd:Q15766870;",
		"ORDER BY ASC(?articleStart)",
		"LIMIT 100",
	}
	for _, want := range wantLines {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q\n%s", want, query)
		}
	}

	// Year and start page are numeric, never quoted
	for _, notWant := range []string{`"1948"`, `"283"`} {
		if strings.Contains(query, notWant) {
			t.Errorf("query contains quoted numeric literal %s", notWant)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	first, err := Build(validParams())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Build(validParams())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if again != first {
			t.Fatalf("Build() not deterministic:\n%s\n---\n%s", first, again)
		}
	}
}

func TestBuild_MissingParams(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		missing string
	}{
		{"no journal", func(p *Params) { p.JournalQID = "" }, "Journal"},
		{"no year", func(p *Params) { p.Year = 0 }, "Year"},
		{"no volume", func(p *Params) { p.Volume = "  " }, "Volume"},
		{"no start page", func(p *Params) { p.StartPage = "" }, "StartPage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			query, err := Build(p)
			if !errors.Is(err, ErrMissingParams) {
				t.Fatalf("Build() error = %v, want ErrMissingParams", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name %s", err, tt.missing)
			}
			if query != "" {
				t.Errorf("Build() returned query %q on error", query)
			}
		})
	}
}

func TestBuild_RejectsInvalidLiterals(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"qid with injection", func(p *Params) { p.JournalQID = "Q1} . ?x ?y ?z {" }},
		{"qid lowercase", func(p *Params) { p.JournalQID = "q42" }},
		{"property instead of item", func(p *Params) { p.JournalQID = "P1433" }},
		{"non numeric start page", func(p *Params) { p.StartPage = "e1234" }},
		{"start page with filter", func(p *Params) { p.StartPage = "1) FILTER(true" }},
		{"negative year", func(p *Params) { p.Year = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			if _, err := Build(p); !errors.Is(err, ErrInvalidParam) {
				t.Errorf("Build() error = %v, want ErrInvalidParam", err)
			}
		})
	}
}

func TestBuild_EscapesVolume(t *testing.T) {
	p := validParams()
	p.Volume = `10" } SELECT * WHERE { ?s ?p ?o`
	query, err := Build(p)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := `BIND("10\" } SELECT * WHERE { ?s ?p ?o" AS ?volume)`
	if !strings.Contains(query, want) {
		t.Errorf("volume not escaped, want %s in\n%s", want, query)
	}
}

func TestParam_Literal(t *testing.T) {
	tests := []struct {
		b    Param
		want string
	}{
		{Param{Name: "Journal", Kind: KindEntity, Value: "Q42"}, "wd:Q42"},
		{Param{Name: "Year", Kind: KindInteger, Value: "0283"}, "283"},
		{Param{Name: "Volume", Kind: KindString, Value: "12A"}, `"12A"`},
		{Param{Name: "Volume", Kind: KindString, Value: `a\b`}, `"a\\b"`},
	}
	for _, tt := range tests {
		got, err := tt.b.Literal()
		if err != nil {
			t.Errorf("%s.Literal() error = %v", tt.b.Kind, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s.Literal() = %s, want %s", tt.b.Kind, got, tt.want)
		}
	}
}
