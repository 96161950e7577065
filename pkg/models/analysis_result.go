package models

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline step names, in execution order. The executive summary depends on
// the risk and financial step outputs and must run last.
const (
	StepRiskAnalysis      = "risk_analysis"
	StepRequiredDocuments = "required_documents"
	StepPenaltyClauses    = "penalty_clauses"
	StepFinancialSummary  = "financial_summary"
	StepTimelineAnalysis  = "timeline_analysis"
	StepExecutiveSummary  = "executive_summary"
)

// StepOrder is the fixed execution order of the analysis pipeline.
var StepOrder = []string{
	StepRiskAnalysis,
	StepRequiredDocuments,
	StepPenaltyClauses,
	StepFinancialSummary,
	StepTimelineAnalysis,
	StepExecutiveSummary,
}

// AnalysisResult holds the aggregated output of a full six-step analysis of
// one tender document. Immutable after the pipeline returns it.
type AnalysisResult struct {
	ID       uuid.UUID `db:"id"        json:"id"`
	TenantID uuid.UUID `db:"tenant_id" json:"tenant_id"`
	TenderID uuid.UUID `db:"tender_id" json:"tender_id"`
	JobID    uuid.UUID `db:"job_id"    json:"job_id"`
	Provider string    `db:"provider"  json:"provider"`
	Model    string    `db:"model"     json:"model"`

	RiskAnalysis      StepResult `db:"risk_analysis"      json:"risk_analysis"`
	RequiredDocuments StepResult `db:"required_documents" json:"required_documents"`
	PenaltyClauses    StepResult `db:"penalty_clauses"    json:"penalty_clauses"`
	FinancialSummary  StepResult `db:"financial_summary"  json:"financial_summary"`
	TimelineAnalysis  StepResult `db:"timeline_analysis"  json:"timeline_analysis"`
	ExecutiveSummary  StepResult `db:"executive_summary"  json:"executive_summary"`

	RiskScore    int     `db:"risk_score"    json:"risk_score"`    // always clamped to [0,100]
	RiskLevel    string  `db:"risk_level"    json:"risk_level"`    // DÜŞÜK/ORTA/YÜKSEK/ÇOK YÜKSEK
	TokensUsed   int     `db:"tokens_used"   json:"tokens_used"`   // approximate, word count based
	CostUSD      float64 `db:"cost_usd"      json:"cost_usd"`
	AnalysisTime float64 `db:"analysis_time" json:"analysis_time"` // wall-clock seconds

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Step returns the result for the named step, or nil for an unknown name.
func (r *AnalysisResult) Step(name string) StepResult {
	switch name {
	case StepRiskAnalysis:
		return r.RiskAnalysis
	case StepRequiredDocuments:
		return r.RequiredDocuments
	case StepPenaltyClauses:
		return r.PenaltyClauses
	case StepFinancialSummary:
		return r.FinancialSummary
	case StepTimelineAnalysis:
		return r.TimelineAnalysis
	case StepExecutiveSummary:
		return r.ExecutiveSummary
	}
	return nil
}

// SetStep stores the result for the named step. Unknown names are ignored.
func (r *AnalysisResult) SetStep(name string, sr StepResult) {
	switch name {
	case StepRiskAnalysis:
		r.RiskAnalysis = sr
	case StepRequiredDocuments:
		r.RequiredDocuments = sr
	case StepPenaltyClauses:
		r.PenaltyClauses = sr
	case StepFinancialSummary:
		r.FinancialSummary = sr
	case StepTimelineAnalysis:
		r.TimelineAnalysis = sr
	case StepExecutiveSummary:
		r.ExecutiveSummary = sr
	}
}
