// Package models contains shared data models used across the TenderScope codebase.
package models

import (
	"context"
	"errors"
)

// Sentinel errors shared by every provider implementation. Callers classify
// failures with errors.Is; only ErrRateLimited is retried.
var (
	ErrRateLimited         = errors.New("model backend rate limited")
	ErrProviderUnavailable = errors.New("model provider unavailable")
	ErrInferenceTimeout    = errors.New("model inference timeout")
	ErrEmptyResponse       = errors.New("model returned an empty response")
)

// ModelProvider is the core interface that all generative backends must implement.
// Never call a specific provider directly; always inject this interface.
type ModelProvider interface {
	// Generate sends a fully assembled prompt and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
	// Model returns the configured model identifier.
	Model() string
}

// ChatMessage is one turn of a document chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// StepResult is the parsed output of one pipeline step. Step schemas are
// model-authored, so results stay weakly typed at this boundary; the scoring
// engine coerces values before doing arithmetic on them.
type StepResult map[string]any
