// Package scoring derives risk scores and levels from analysis payloads,
// compares analyzed tenders, and scores company-fit matches. Everything here
// is pure computation over already-parsed data; derivations recover from any
// panic with fixed fallbacks and never raise.
package scoring

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/tenderscope/tenderscope/pkg/models"
)

// Qualitative risk levels.
const (
	LevelLow      = "DÜŞÜK"
	LevelMedium   = "ORTA"
	LevelHigh     = "YÜKSEK"
	LevelVeryHigh = "ÇOK YÜKSEK"
)

const (
	baselineRiskScore = 30 // no findings, no explicit score
	neutralRiskScore  = 50 // derivation panicked
)

// severityWeights maps a finding's seviye tag to its score contribution.
// Unknown tags fall back to the ORTA weight.
var severityWeights = map[string]int{
	"KRİTİK": 25,
	"YÜKSEK": 18,
	"ORTA":   10,
	"DÜŞÜK":  5,
}

const defaultSeverityWeight = 10

// RiskScore derives a 0–100 score from a risk_analysis step payload.
// An explicit numeric score field wins; otherwise severity weights over the
// findings list are summed; no findings at all defaults to 30. The derivation
// never raises: any panic yields the neutral score 50.
func RiskScore(risk models.StepResult) (score int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("risk score derivation panicked", "error", r)
			score = neutralRiskScore
		}
	}()

	for _, key := range []string{"toplam_risk_skoru", "risk_skoru"} {
		if v, ok := asFloat(risk[key]); ok {
			return clamp(int(v), 0, 100)
		}
	}

	findings, ok := risk["riskler"].([]any)
	if !ok || len(findings) == 0 {
		return baselineRiskScore
	}

	total := 0
	for _, f := range findings {
		m, ok := f.(map[string]any)
		if !ok {
			total += defaultSeverityWeight
			continue
		}
		severity, _ := m["seviye"].(string)
		severity = strings.ToUpper(strings.TrimSpace(severity))
		if w, ok := severityWeights[severity]; ok {
			total += w
		} else {
			total += defaultSeverityWeight
		}
	}
	return clamp(total, 0, 100)
}

// RiskLevel maps a score to its qualitative level. Pure function with fixed
// thresholds: ≤30 DÜŞÜK, ≤50 ORTA, ≤70 YÜKSEK, else ÇOK YÜKSEK.
func RiskLevel(score int) string {
	switch {
	case score <= 30:
		return LevelLow
	case score <= 50:
		return LevelMedium
	case score <= 70:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// asFloat coerces model-authored numeric values, which arrive as float64
// from JSON but occasionally as numeric strings.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
