package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpriskorn/WikidataPaperFinder/internal/resolver"
	"github.com/dpriskorn/WikidataPaperFinder/internal/wikidata"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <journal name>",
	Short: "Look up a journal in Wikidata",
	Long: `Search Wikidata for a journal name and show the candidates. The accepted
candidate is the first whose label or matched alias equals the name,
ignoring case.

Examples:
  wpf lookup "Quad. Nutr."
  wpf lookup "J. Biol. Chem." --human`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

// LookupResponse is the JSON output of the lookup command.
type LookupResponse struct {
	Name       string               `json:"name"`
	Candidates []wikidata.Candidate `json:"candidates"`
	Accepted   *wikidata.Candidate  `json:"accepted,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		exitWithError(ExitError, "journal name is empty")
	}

	s := mustLoadSettings()
	client := newWikidataClient(s)

	candidates, err := client.Search(context.Background(), name)
	if err != nil {
		exitWithError(ExitError, "searching Wikidata: %v", err)
	}

	resp := LookupResponse{Name: name, Candidates: candidates}
	if match, ok := resolver.MatchCandidate(candidates, name); ok {
		resp.Accepted = &match
	}

	if humanOutput {
		outputHuman("%s", formatLookupHuman(resp))
	} else {
		outputJSON(resp)
	}

	if resp.Accepted == nil {
		os.Exit(ExitNotFound)
	}
}

func formatLookupHuman(resp LookupResponse) string {
	var sb strings.Builder
	if len(resp.Candidates) == 0 {
		fmt.Fprintf(&sb, "No Wikidata items found for %q\n", resp.Name)
		return sb.String()
	}
	for _, c := range resp.Candidates {
		marker := " "
		if resp.Accepted != nil && c.ID == resp.Accepted.ID {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %-10s %s", marker, c.ID, c.Label)
		if c.Match.Text != "" && c.Match.Text != c.Label {
			fmt.Fprintf(&sb, " [%s: %s]", c.Match.Type, c.Match.Text)
		}
		if c.Description != "" {
			fmt.Fprintf(&sb, " - %s", c.Description)
		}
		sb.WriteString("\n")
	}
	if resp.Accepted == nil {
		fmt.Fprintf(&sb, "\nNo candidate matches %q exactly\n", resp.Name)
	}
	return sb.String()
}
