package main

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after environment overrides and defaults.
The OpenAI API key itself is never printed.

Configuration file: $XDG_CONFIG_HOME/wpf/config.yml (default ~/.config/wpf/config.yml)

Keys:
  ai_backend       openai (default) or claude
  ai_model         model name for the backend
  openai_api_key   API key (or OPENAI_API_KEY)
  openai_base_url  OpenAI-compatible server URL
  user_agent       User-Agent sent to Wikidata
  search_endpoint  wbsearchentities API URL
  sparql_endpoint  SPARQL endpoint URL
  search_language  language for journal search (default en)
  listen_addr      address for wpf serve (default :8080)`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// ConfigResponse is the JSON output of the config command.
type ConfigResponse struct {
	AIBackend      string `json:"ai_backend"`
	AIModel        string `json:"ai_model,omitempty"`
	APIKeySet      bool   `json:"openai_api_key_set"`
	OpenAIBaseURL  string `json:"openai_base_url,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
	SearchEndpoint string `json:"search_endpoint,omitempty"`
	SPARQLEndpoint string `json:"sparql_endpoint,omitempty"`
	SearchLanguage string `json:"search_language"`
	ListenAddr     string `json:"listen_addr"`
	ConfigPath     string `json:"config_path"`
}

func runConfig(cmd *cobra.Command, args []string) {
	s := mustLoadSettings()
	resp := ConfigResponse{
		AIBackend:      s.AIBackend,
		AIModel:        s.AIModel,
		APIKeySet:      s.HasAPIKey(),
		OpenAIBaseURL:  s.OpenAIBaseURL,
		UserAgent:      s.UserAgent,
		SearchEndpoint: s.SearchEndpoint,
		SPARQLEndpoint: s.SPARQLEndpoint,
		SearchLanguage: s.SearchLanguage,
		ListenAddr:     s.ListenAddr,
		ConfigPath:     s.ConfigPath,
	}

	if humanOutput {
		outputHuman("config:          %s\n", resp.ConfigPath)
		outputHuman("ai_backend:      %s\n", resp.AIBackend)
		outputHuman("ai_model:        %s\n", resp.AIModel)
		outputHuman("openai_api_key:  %v\n", map[bool]string{true: "set", false: "not set"}[resp.APIKeySet])
		outputHuman("openai_base_url: %s\n", resp.OpenAIBaseURL)
		outputHuman("user_agent:      %s\n", resp.UserAgent)
		outputHuman("search_endpoint: %s\n", resp.SearchEndpoint)
		outputHuman("sparql_endpoint: %s\n", resp.SPARQLEndpoint)
		outputHuman("search_language: %s\n", resp.SearchLanguage)
		outputHuman("listen_addr:     %s\n", resp.ListenAddr)
		return
	}
	outputJSON(resp)
}
