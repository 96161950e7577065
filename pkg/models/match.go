package models

// CategoryScores holds the five company-fit sub-scores, each in [0,100].
type CategoryScores struct {
	Financial int `json:"financial"`
	Technical int `json:"technical"`
	Reference int `json:"reference"`
	Equipment int `json:"equipment"`
	General   int `json:"general"`
}

// MatchResult is the outcome of scoring a company profile against one
// analyzed tender. Created fresh per (profile, analysis) pair.
type MatchResult struct {
	OverallScore        int            `json:"overall_score"` // weighted sum, [0,100]
	CategoryScores      CategoryScores `json:"category_scores"`
	MissingRequirements []string       `json:"missing_requirements"`
	Strengths           []string       `json:"strengths"`
	Weaknesses          []string       `json:"weaknesses"`
	Verdict             string         `json:"verdict"` // UYGUN / KOŞULLU UYGUN / UYGUN DEĞİL / HESAPLANAMADI
	Recommendations     []string       `json:"recommendations"`
}
