// Package llm provides the AI text services used to extract citation fields.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by New.
const (
	BackendOpenAI = "openai"
	BackendClaude = "claude"
)

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown AI backend")

// Completer sends a prompt to an AI text service and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Settings selects and configures a backend.
type Settings struct {
	Backend string
	Model   string
	APIKey  string
	BaseURL string
}

// New returns the Completer for s.Backend. An empty backend means OpenAI.
func New(s Settings) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "", BackendOpenAI:
		if s.APIKey == "" {
			return nil, fmt.Errorf("openai backend: API key not configured")
		}
		return NewOpenAI(OpenAIConfig{
			APIKey:  s.APIKey,
			Model:   s.Model,
			BaseURL: s.BaseURL,
		}), nil
	case BackendClaude:
		return NewClaudeCLI(ClaudeConfig{Model: s.Model}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}
