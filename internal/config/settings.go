package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Environment variables that override the config file.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvAIBackend    = "WPF_AI_BACKEND"
	EnvAIModel      = "WPF_AI_MODEL"
	EnvUserAgent    = "WPF_USER_AGENT"
	EnvListenAddr   = "WPF_LISTEN_ADDR"
)

// Defaults applied when neither the environment nor the file sets a value.
const (
	DefaultAIBackend      = "openai"
	DefaultSearchLanguage = "en"
	DefaultListenAddr     = ":8080"
)

// ErrInvalidConfig indicates a configured value is not usable.
var ErrInvalidConfig = errors.New("invalid configuration")

// validBackends lists the accepted ai_backend values.
var validBackends = []string{"openai", "claude"}

// Settings is the effective configuration after environment overrides and
// defaults. Empty endpoint and model fields mean "use the client default".
type Settings struct {
	AIBackend      string `json:"ai_backend" yaml:"ai_backend"`
	AIModel        string `json:"ai_model,omitempty" yaml:"ai_model,omitempty"`
	OpenAIAPIKey   string `json:"-" yaml:"-"`
	OpenAIBaseURL  string `json:"openai_base_url,omitempty" yaml:"openai_base_url,omitempty"`
	UserAgent      string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	SearchEndpoint string `json:"search_endpoint,omitempty" yaml:"search_endpoint,omitempty"`
	SPARQLEndpoint string `json:"sparql_endpoint,omitempty" yaml:"sparql_endpoint,omitempty"`
	SearchLanguage string `json:"search_language" yaml:"search_language"`
	ListenAddr     string `json:"listen_addr" yaml:"listen_addr"`
	ConfigPath     string `json:"config_path" yaml:"config_path"`
}

// HasAPIKey reports whether an OpenAI API key is configured.
func (s Settings) HasAPIKey() bool {
	return s.OpenAIAPIKey != ""
}

// GetConfigValue returns the environment variable if set, else the config value.
func GetConfigValue(envVar, configValue string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return configValue
}

func withDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// Load returns the effective settings.
func Load() (Settings, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		AIBackend:      strings.ToLower(withDefault(GetConfigValue(EnvAIBackend, cfg.AIBackend), DefaultAIBackend)),
		AIModel:        GetConfigValue(EnvAIModel, cfg.AIModel),
		OpenAIAPIKey:   GetConfigValue(EnvOpenAIAPIKey, cfg.OpenAIAPIKey),
		OpenAIBaseURL:  cfg.OpenAIBaseURL,
		UserAgent:      GetConfigValue(EnvUserAgent, cfg.UserAgent),
		SearchEndpoint: cfg.SearchEndpoint,
		SPARQLEndpoint: cfg.SPARQLEndpoint,
		SearchLanguage: withDefault(cfg.SearchLanguage, DefaultSearchLanguage),
		ListenAddr:     withDefault(GetConfigValue(EnvListenAddr, cfg.ListenAddr), DefaultListenAddr),
		ConfigPath:     GlobalConfigPath(),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks values that would otherwise fail late.
func (s Settings) Validate() error {
	for _, b := range validBackends {
		if s.AIBackend == b {
			return nil
		}
	}
	return fmt.Errorf("%w: ai_backend %q (valid: %s)", ErrInvalidConfig, s.AIBackend, strings.Join(validBackends, ", "))
}

// HelpfulConfigMessage explains how to configure the AI backend.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No OpenAI API key configured.

Set %s, or create %s:
  ai_backend: openai
  openai_api_key: sk-...

To use the local claude CLI instead:
  ai_backend: claude`,
		EnvOpenAIAPIKey,
		configPath)
}
