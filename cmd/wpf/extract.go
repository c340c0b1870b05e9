package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpriskorn/WikidataPaperFinder/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <reference text>",
	Short: "Extract citation fields with the AI service",
	Long: `Ask the AI service for the journal, year, volume and pages of a citation
and show the normalized fields. No Wikidata requests are made.

Examples:
  wpf extract "Ruffo, A. (1948). Quad. Nutr. 10, 283."`,
	Args: cobra.MinimumNArgs(1),
	Run:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

// ExtractResponse is the JSON output of the extract command.
type ExtractResponse struct {
	ReferenceText string            `json:"reference_text"`
	AIResponse    *extract.Response `json:"ai_response"`
	Fields        *extract.Fields   `json:"fields,omitempty"`
	Error         string            `json:"error,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		exitWithError(ExitError, "reference text is empty")
	}

	s := mustLoadSettings()
	ex := mustNewExtractor(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resp, err := ex.Extract(ctx, text)
	if err != nil {
		logger.Warn("extraction failed", "error", err)
	}

	out := ExtractResponse{ReferenceText: text, AIResponse: resp}
	fields, err := extract.Normalize(resp)
	if err != nil {
		out.Error = err.Error()
	} else {
		out.Fields = &fields
	}

	if humanOutput {
		outputHuman("AI response: %s\n", resp)
		if out.Fields != nil {
			outputHuman("Journal:     %s\nYear:        %d\nVolume:      %s\nPages:       %s\nStart page:  %s\n",
				fields.Journal, fields.Year, fields.Volume, fields.Pages, fields.StartPage)
		} else {
			outputHuman("Error:       %s\n", out.Error)
		}
	} else {
		outputJSON(out)
	}

	if out.Fields == nil {
		os.Exit(ExitDataError)
	}
}
