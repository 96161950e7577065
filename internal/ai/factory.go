// Package ai wires generative model providers into the analysis pipeline.
package ai

import (
	"fmt"

	"github.com/tenderscope/tenderscope/internal/ai/anthropic"
	"github.com/tenderscope/tenderscope/internal/ai/gemini"
	"github.com/tenderscope/tenderscope/internal/ai/mock"
	"github.com/tenderscope/tenderscope/internal/ai/openai"
	"github.com/tenderscope/tenderscope/internal/config"
	"github.com/tenderscope/tenderscope/pkg/models"
)

// NewProvider constructs the appropriate AI provider based on config,
// wrapped with rate-limit retry. Called once at server startup.
func NewProvider(cfg config.AIConfig) (models.ModelProvider, error) {
	var base models.ModelProvider
	switch cfg.Provider {
	case "gemini":
		base = gemini.NewProvider(cfg.Gemini, cfg.InferenceTimeout)
	case "openai":
		base = openai.NewProvider(cfg.OpenAI, cfg.InferenceTimeout)
	case "anthropic":
		base = anthropic.NewProvider(cfg.Anthropic, cfg.InferenceTimeout)
	case "mock":
		base = mock.NewProvider()
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.Provider)
	}
	return WithRetry(base, nil, cfg.InferenceTimeout), nil
}
