package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpriskorn/WikidataPaperFinder/internal/clipboard"
	"github.com/dpriskorn/WikidataPaperFinder/internal/pdf"
	"github.com/dpriskorn/WikidataPaperFinder/internal/resolver"
)

var (
	resolveFile      string
	resolvePDF       string
	resolveClipboard bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [reference text]",
	Short: "Find Wikidata articles for citations",
	Long: `Run the full pipeline for one or more citations: AI extraction, journal
lookup, SPARQL query synthesis and execution.

Examples:
  wpf resolve "Ruffo, A. (1948). Quad. Nutr. 10, 283."
  wpf resolve --file citations.txt        # one citation per line, "-" for stdin
  wpf resolve --pdf paper.pdf --human     # every entry of the reference list
  wpf resolve --clipboard                 # the citation currently on the clipboard

Exit codes:
  0  every citation was found
  4  at least one citation had no match`,
	Run: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFile, "file", "", "Read citations from a file, one per line")
	resolveCmd.Flags().StringVar(&resolvePDF, "pdf", "", "Read citations from the reference list of a PDF")
	resolveCmd.Flags().BoolVar(&resolveClipboard, "clipboard", false, "Read the citation from the clipboard")
	rootCmd.AddCommand(resolveCmd)
}

// ResolveResponse is the JSON output of the resolve command.
type ResolveResponse struct {
	Records []*resolver.Record `json:"records"`
	Found   int                `json:"found"`
	Total   int                `json:"total"`
}

func runResolve(cmd *cobra.Command, args []string) {
	texts, err := collectReferences(args, resolveFile, resolvePDF, cmd.InOrStdin())
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if resolveClipboard {
		text, err := clipboard.Paste()
		if err != nil {
			exitWithError(ExitError, "reading clipboard: %v", err)
		}
		if text != "" {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		exitWithError(ExitError, "no reference text given\n\nPass a citation as an argument, or use --file or --pdf.")
	}

	s := mustLoadSettings()
	r := mustNewResolver(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resp := ResolveResponse{Total: len(texts)}
	for _, text := range texts {
		rec := r.Resolve(ctx, text)
		if resolver.Succeeded(rec) {
			resp.Found++
		}
		resp.Records = append(resp.Records, rec)
		if ctx.Err() != nil {
			break
		}
	}

	if humanOutput {
		for i, rec := range resp.Records {
			if i > 0 {
				fmt.Println()
			}
			outputHuman("%s", formatRecordHuman(rec))
		}
		outputHuman("\n%d of %d found\n", resp.Found, resp.Total)
	} else {
		outputJSON(resp)
	}

	if resp.Found < resp.Total {
		os.Exit(ExitNotFound)
	}
}

// collectReferences gathers citations from arguments, a text file or a PDF.
// Arguments are joined into a single citation.
func collectReferences(args []string, file, pdfPath string, stdin io.Reader) ([]string, error) {
	var texts []string
	if joined := strings.TrimSpace(strings.Join(args, " ")); joined != "" {
		texts = append(texts, joined)
	}

	if file != "" {
		var r io.Reader = stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, fmt.Errorf("opening citation file: %w", err)
			}
			defer f.Close()
			r = f
		}
		lines, err := readLines(r)
		if err != nil {
			return nil, fmt.Errorf("reading citation file: %w", err)
		}
		texts = append(texts, lines...)
	}

	if pdfPath != "" {
		refs, err := pdf.ExtractReferences(pdfPath)
		if err != nil {
			return nil, fmt.Errorf("reading PDF: %w", err)
		}
		texts = append(texts, refs...)
	}

	return texts, nil
}

// readLines returns the non-blank lines of r, trimmed. Lines starting with
// "#" are comments.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// formatRecordHuman renders a record as a short report.
func formatRecordHuman(rec *resolver.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reference: %s\n", rec.ReferenceText)
	fmt.Fprintf(&sb, "Status:    %s\n", rec.Status)
	if rec.JournalName != "" {
		fmt.Fprintf(&sb, "Cited as:  %s %d, vol. %s, p. %s\n", rec.JournalName, rec.Year, rec.Volume, rec.Pages)
	}
	if rec.JournalQID != "" {
		fmt.Fprintf(&sb, "Journal:   %s (%s)\n", rec.JournalLabelEn, resolver.EntityLink(rec))
	}
	if link := resolver.QueryLink(rec); link != "" {
		fmt.Fprintf(&sb, "Query:     %s\n", link)
	}
	if !resolver.EmptyResult(rec) {
		for _, b := range rec.QueryResult.Results.Bindings {
			fmt.Fprintf(&sb, "  - %s  %s (vol. %s, p. %s)\n",
				b.Value("article"), b.Value("articleLabel"), b.Value("volume"), b.Value("pages"))
		}
	}
	return sb.String()
}
