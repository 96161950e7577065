package models

// ComparisonRow summarizes one analyzed tender inside a multi-tender
// comparison. Field values other than score and level come straight from the
// model-authored step results, so they stay strings.
type ComparisonRow struct {
	FileName        string `json:"file_name"`
	RiskScore       int    `json:"risk_score"`
	RiskLevel       string `json:"risk_level"`
	EstimatedValue  string `json:"estimated_value"`
	GuaranteeAmount string `json:"guarantee_amount"`
	Duration        string `json:"duration"`
	DocumentCount   int    `json:"document_count"`
	PenaltyCount    int    `json:"penalty_count"`
	Recommendation  string `json:"recommendation"` // GİR / DİKKATLİ GİR / GİRME
}

// ComparisonResult is the outcome of comparing 2–5 analyzed tenders.
// The best choice is the row with the minimal risk score; ties keep the
// earlier row.
type ComparisonResult struct {
	Rows          []ComparisonRow `json:"rows"`
	BestChoice    string          `json:"best_choice"`
	BestReason    string          `json:"best_reason"`
	TotalCompared int             `json:"total_compared"`
}
