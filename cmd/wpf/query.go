package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dpriskorn/WikidataPaperFinder/internal/clipboard"
	"github.com/dpriskorn/WikidataPaperFinder/internal/extract"
	"github.com/dpriskorn/WikidataPaperFinder/internal/sparql"
)

var (
	queryQID     string
	queryYear    int
	queryVolume  string
	queryPages   string
	queryExecute bool
	queryCopy    bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Build (and optionally run) the article query",
	Long: `Build the SPARQL query for a journal item, year, volume and page without
asking the AI service. With --execute the query is also sent to the
Wikidata Query Service.

Examples:
  wpf query --qid Q100 --year 1948 --volume 10 --page 283
  wpf query --qid Q100 --year 1948 --volume 10 --page 283-290 --execute --human`,
	Args: cobra.NoArgs,
	Run:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryQID, "qid", "", "Journal item ID (e.g. Q100)")
	queryCmd.Flags().IntVar(&queryYear, "year", 0, "Publication year")
	queryCmd.Flags().StringVar(&queryVolume, "volume", "", "Volume")
	queryCmd.Flags().StringVar(&queryPages, "page", "", "Page or page range")
	queryCmd.Flags().BoolVar(&queryExecute, "execute", false, "Run the query and include the results")
	queryCmd.Flags().BoolVar(&queryCopy, "copy", false, "Copy the Query Service link to the clipboard")
	queryCmd.MarkFlagRequired("qid")
	queryCmd.MarkFlagRequired("year")
	queryCmd.MarkFlagRequired("volume")
	queryCmd.MarkFlagRequired("page")
	rootCmd.AddCommand(queryCmd)
}

// QueryResponse is the JSON output of the query command.
type QueryResponse struct {
	Query     string         `json:"query"`
	QueryLink string         `json:"query_link"`
	Result    *sparql.Result `json:"result,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) {
	pages := extract.NormalizePages(queryPages)
	query, err := sparql.Build(sparql.Params{
		JournalQID: queryQID,
		Year:       queryYear,
		Volume:     queryVolume,
		StartPage:  extract.StartPage(pages),
	})
	if err != nil {
		if errors.Is(err, sparql.ErrInvalidParam) || errors.Is(err, sparql.ErrMissingParams) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	resp := QueryResponse{Query: query, QueryLink: sparql.QueryLink(query)}

	if queryCopy {
		if err := clipboard.Copy(resp.QueryLink); err != nil {
			logger.Warn("could not copy query link", "error", err)
		}
	}

	if queryExecute {
		s := mustLoadSettings()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := newWikidataClient(s).Execute(ctx, query)
		if err != nil {
			exitWithError(ExitError, "executing query: %v", err)
		}
		resp.Result = result
	}

	if humanOutput {
		outputHuman("%s\n%s\n", resp.Query, resp.QueryLink)
		if queryExecute {
			outputHuman("\n%d result(s)\n", resp.Result.Len())
			for _, b := range resp.Result.Results.Bindings {
				outputHuman("  - %s  %s\n", b.Value("article"), b.Value("articleLabel"))
			}
		}
	} else {
		outputJSON(resp)
	}

	if queryExecute && resp.Result.IsEmpty() {
		os.Exit(ExitNotFound)
	}
}
