// Package main provides the wpf CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool

	// verbose enables debug logging on stderr
	verbose bool

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors like missing flags are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wpf",
	Short: "Find the Wikidata item for a paper citation",
	Long: `wpf finds scholarly articles in Wikidata from free-text citations.

A citation such as "Ruffo, A. (1948). Quad. Nutr. 10, 283." is sent to an
AI service to extract journal, year, volume and pages. The journal is looked
up in Wikidata and a SPARQL query for matching articles is run against the
Wikidata Query Service.

All commands output JSON by default. Use --human for readable output.

Environment Variables:
  OPENAI_API_KEY   API key for the openai backend
  WPF_AI_BACKEND   openai (default) or claude
  WPF_AI_MODEL     Model name for the selected backend`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	// Load .env file if present (for OPENAI_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stages to stderr")
	rootCmd.Version = Version
}
