// Package mock provides a configurable ModelProvider for tests.
package mock

import (
	"context"
	"encoding/json"

	"github.com/tenderscope/tenderscope/pkg/models"
)

// Provider satisfies models.ModelProvider for testing.
type Provider struct {
	Name_        string
	Model_       string
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *Provider) Name() string { return m.Name_ }

func (m *Provider) Model() string {
	if m.Model_ == "" {
		return "mock-v1"
	}
	return m.Model_
}

func (m *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "{}", nil
}

// NewProvider returns a Provider that answers every prompt with a small
// plausible analysis payload.
func NewProvider() *Provider {
	canned, _ := json.Marshal(map[string]any{
		"toplam_risk_skoru":   35,
		"riskler":             []any{map[string]any{"kategori": "mali", "aciklama": "simüle edilmiş risk", "seviye": "ORTA", "oneri": "kontrol edin"}},
		"genel_degerlendirme": "mock değerlendirme",
	})
	return &Provider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return string(canned), nil
		},
	}
}

// NewFailingProvider returns a Provider that always returns the given error.
func NewFailingProvider(err error) *Provider {
	return &Provider{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewScriptedProvider returns a Provider that replies with the given outputs
// in order, repeating the last one once the script runs out.
func NewScriptedProvider(outputs ...string) *Provider {
	i := 0
	return &Provider{
		Name_: "mock-scripted",
		GenerateFunc: func(_ context.Context, _ string) (string, error) {
			out := outputs[min(i, len(outputs)-1)]
			i++
			return out, nil
		},
	}
}

// Compile-time check that Provider implements ModelProvider.
var _ models.ModelProvider = (*Provider)(nil)
