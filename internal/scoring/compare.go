package scoring

import (
	"errors"
	"fmt"

	"github.com/tenderscope/tenderscope/pkg/models"
)

// Sentinel errors for comparison input validation.
var (
	ErrNotEnoughRecords = errors.New("at least 2 analyses are required for comparison")
	ErrTooManyRecords   = errors.New("at most 5 analyses can be compared")
)

// Entry recommendations per comparison row.
const (
	RecommendEnter        = "GİR"
	RecommendEnterCareful = "DİKKATLİ GİR"
	RecommendSkip         = "GİRME"
)

// CompareItem pairs an analysis with the display name of its source file.
type CompareItem struct {
	FileName string
	Analysis *models.AnalysisResult
}

// Compare builds one row per analyzed tender and selects the lowest-risk one
// as the best choice. Ties keep the earlier item. Fewer than 2 or more than 5
// items is an input error, not a computed result.
func Compare(items []CompareItem) (*models.ComparisonResult, error) {
	if len(items) < 2 {
		return nil, ErrNotEnoughRecords
	}
	if len(items) > 5 {
		return nil, ErrTooManyRecords
	}

	rows := make([]models.ComparisonRow, 0, len(items))
	best := 0
	for i, item := range items {
		rows = append(rows, buildRow(item))
		if rows[i].RiskScore < rows[best].RiskScore {
			best = i
		}
	}

	return &models.ComparisonResult{
		Rows:       rows,
		BestChoice: rows[best].FileName,
		BestReason: fmt.Sprintf("%s en düşük risk skoruna sahip (%d/100, %s)",
			rows[best].FileName, rows[best].RiskScore, rows[best].RiskLevel),
		TotalCompared: len(rows),
	}, nil
}

func buildRow(item CompareItem) models.ComparisonRow {
	a := item.Analysis
	return models.ComparisonRow{
		FileName:        item.FileName,
		RiskScore:       a.RiskScore,
		RiskLevel:       a.RiskLevel,
		EstimatedValue:  stringField(a.FinancialSummary, "yaklasik_maliyet"),
		GuaranteeAmount: stringField(a.FinancialSummary, "gecici_teminat"),
		Duration:        stringField(a.TimelineAnalysis, "is_suresi"),
		DocumentCount:   listLen(a.RequiredDocuments, "belgeler"),
		PenaltyCount:    listLen(a.PenaltyClauses, "cezalar"),
		Recommendation:  Recommendation(a.RiskScore),
	}
}

// Recommendation maps a risk score to an entry recommendation:
// ≤40 GİR, ≤70 DİKKATLİ GİR, else GİRME.
func Recommendation(score int) string {
	switch {
	case score <= 40:
		return RecommendEnter
	case score <= 70:
		return RecommendEnterCareful
	default:
		return RecommendSkip
	}
}

func stringField(m models.StepResult, key string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return "-"
}

func listLen(m models.StepResult, key string) int {
	if l, ok := m[key].([]any); ok {
		return len(l)
	}
	return 0
}
