// Package analysis implements the journal analysis contract: the prompt
// sent to the LLM and the authoritative validation and repair applied to
// its response before anything is persisted.
package analysis

import (
	"context"
	"time"
)

// Client defines the interface for LLM completion providers. One call
// per submission; no streaming, no multi-turn.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// Config holds configuration for the analysis client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	Temperature float64
	MaxTokens   int
}
