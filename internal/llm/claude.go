package llm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	claudeDefaultBinary  = "claude"
	claudeDefaultModel   = "haiku"
	claudeDefaultTimeout = 2 * time.Minute
)

// ClaudeConfig holds configuration for the claude CLI backend.
type ClaudeConfig struct {
	Binary  string        // "claude" (default)
	Model   string        // "haiku" (default)
	Timeout time.Duration // 2 minutes (default)
}

// ClaudeCLI completes prompts by running the claude CLI in print mode.
type ClaudeCLI struct {
	binary  string
	model   string
	timeout time.Duration
}

// NewClaudeCLI creates a claude CLI backend.
func NewClaudeCLI(cfg ClaudeConfig) *ClaudeCLI {
	if cfg.Binary == "" {
		cfg.Binary = claudeDefaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = claudeDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = claudeDefaultTimeout
	}
	return &ClaudeCLI{binary: cfg.Binary, model: cfg.Model, timeout: cfg.Timeout}
}

// Complete runs `claude --model <model> -p <prompt>` and returns its trimmed stdout.
func (c *ClaudeCLI) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, "--model", c.model, "-p", prompt)
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("claude CLI timed out after %s", c.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("claude CLI error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("claude CLI error: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

var _ Completer = (*ClaudeCLI)(nil)
