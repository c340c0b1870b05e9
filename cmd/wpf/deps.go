package main

import (
	"fmt"
	"os"

	"github.com/dpriskorn/WikidataPaperFinder/internal/config"
	"github.com/dpriskorn/WikidataPaperFinder/internal/extract"
	"github.com/dpriskorn/WikidataPaperFinder/internal/llm"
	"github.com/dpriskorn/WikidataPaperFinder/internal/resolver"
	"github.com/dpriskorn/WikidataPaperFinder/internal/wikidata"
)

// mustLoadSettings loads configuration, exits on error.
func mustLoadSettings() config.Settings {
	s, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return s
}

// mustNewExtractor builds the extraction stage for the configured backend.
func mustNewExtractor(s config.Settings) *extract.Extractor {
	if s.AIBackend == llm.BackendOpenAI && !s.HasAPIKey() {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	completer, err := llm.New(llm.Settings{
		Backend: s.AIBackend,
		Model:   s.AIModel,
		APIKey:  s.OpenAIAPIKey,
		BaseURL: s.OpenAIBaseURL,
	})
	if err != nil {
		exitWithError(ExitConfigError, "configuring AI backend: %v", err)
	}
	return extract.New(completer)
}

// newWikidataClient builds a client from the configured endpoints.
func newWikidataClient(s config.Settings) *wikidata.Client {
	return wikidata.NewClient(
		wikidata.WithUserAgent(s.UserAgent),
		wikidata.WithSearchEndpoint(s.SearchEndpoint),
		wikidata.WithSPARQLEndpoint(s.SPARQLEndpoint),
		wikidata.WithLanguage(s.SearchLanguage),
		wikidata.WithLogger(logger),
	)
}

// mustNewResolver wires the full pipeline.
func mustNewResolver(s config.Settings) *resolver.Resolver {
	client := newWikidataClient(s)
	return resolver.New(mustNewExtractor(s), client, client, resolver.WithLogger(logger))
}
