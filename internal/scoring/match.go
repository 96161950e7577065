package scoring

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tenderscope/tenderscope/pkg/models"
)

// Company-fit verdicts.
const (
	VerdictSuitable      = "UYGUN"
	VerdictConditional   = "KOŞULLU UYGUN"
	VerdictNotSuitable   = "UYGUN DEĞİL"
	VerdictNotComputable = "HESAPLANAMADI"
)

// Fixed category weights. Must sum to 1.0.
const (
	weightFinancial = 0.30
	weightTechnical = 0.25
	weightReference = 0.20
	weightEquipment = 0.15
	weightGeneral   = 0.10
)

// Note list caps in the merged result.
const (
	maxMissing         = 10
	maxStrengths       = 5
	maxWeaknesses      = 5
	maxRecommendations = 3
)

// categoryEval is the output of one sub-evaluator.
type categoryEval struct {
	score           int
	missing         []string
	strengths       []string
	weaknesses      []string
	recommendations []string
}

// Match scores a company profile against one analyzed tender. Each category
// starts from a fixed baseline and moves by fixed deltas on threshold
// comparisons; the weighted sum and verdict are derived at the end. Any panic
// yields a zero score with verdict HESAPLANAMADI instead of propagating.
func Match(profile *models.CompanyProfile, analysis *models.AnalysisResult) (res *models.MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("company-fit match panicked", "error", r)
			res = &models.MatchResult{
				Verdict:             VerdictNotComputable,
				MissingRequirements: []string{},
				Strengths:           []string{},
				Weaknesses:          []string{},
				Recommendations:     []string{},
			}
		}
	}()

	evals := map[string]categoryEval{
		"financial": evalFinancial(profile),
		"technical": evalTechnical(profile),
		"reference": evalReference(profile),
		"equipment": evalEquipment(profile),
		"general":   evalGeneral(profile, analysis),
	}

	weighted := weightFinancial*float64(evals["financial"].score) +
		weightTechnical*float64(evals["technical"].score) +
		weightReference*float64(evals["reference"].score) +
		weightEquipment*float64(evals["equipment"].score) +
		weightGeneral*float64(evals["general"].score)
	overall := clamp(int(math.Round(weighted)), 0, 100)

	res = &models.MatchResult{
		OverallScore: overall,
		CategoryScores: models.CategoryScores{
			Financial: evals["financial"].score,
			Technical: evals["technical"].score,
			Reference: evals["reference"].score,
			Equipment: evals["equipment"].score,
			General:   evals["general"].score,
		},
		MissingRequirements: mergeNotes(maxMissing, evals, func(e categoryEval) []string { return e.missing }),
		Strengths:           mergeNotes(maxStrengths, evals, func(e categoryEval) []string { return e.strengths }),
		Weaknesses:          mergeNotes(maxWeaknesses, evals, func(e categoryEval) []string { return e.weaknesses }),
		Verdict:             Verdict(overall),
		Recommendations:     mergeNotes(maxRecommendations, evals, func(e categoryEval) []string { return e.recommendations }),
	}
	return res
}

// Verdict maps an overall score to the fit verdict:
// ≥75 UYGUN, ≥50 KOŞULLU UYGUN, else UYGUN DEĞİL.
func Verdict(overall int) string {
	switch {
	case overall >= 75:
		return VerdictSuitable
	case overall >= 50:
		return VerdictConditional
	default:
		return VerdictNotSuitable
	}
}

func evalFinancial(p *models.CompanyProfile) categoryEval {
	e := categoryEval{score: 50}

	switch {
	case p.AnnualRevenue > 50_000_000:
		e.score += 30
		e.strengths = append(e.strengths, "Yıllık ciro 50M TL üzerinde")
	case p.AnnualRevenue > 10_000_000:
		e.score += 15
	case p.AnnualRevenue > 0:
		e.weaknesses = append(e.weaknesses, "Yıllık ciro büyük ihaleler için düşük")
	default:
		e.score -= 10
		e.missing = append(e.missing, "Yıllık ciro bilgisi eksik")
	}

	switch {
	case p.BankCreditLimit > 20_000_000:
		e.score += 20
		e.strengths = append(e.strengths, "Güçlü banka kredi limiti")
	case p.BankCreditLimit > 5_000_000:
		e.score += 10
	case p.BankCreditLimit <= 0:
		e.missing = append(e.missing, "Banka kredi limiti bilgisi eksik")
		e.recommendations = append(e.recommendations, "Teminat mektubu için banka kredi limiti tanımlatın")
	}

	e.score = clamp(e.score, 0, 100)
	return e
}

func evalTechnical(p *models.CompanyProfile) categoryEval {
	e := categoryEval{score: 60}

	if len(p.Certifications) == 0 {
		e.score -= 15
		e.missing = append(e.missing, "Sertifika bilgisi eksik (ISO 9001 vb.)")
	} else {
		if hasCertification(p.Certifications, "ISO 9001") {
			e.score += 10
			e.strengths = append(e.strengths, "ISO 9001 kalite belgesi mevcut")
		}
		if hasCertification(p.Certifications, "ISO 27001") {
			e.score += 5
		}
	}

	switch {
	case p.EmployeeCount >= 50:
		e.score += 15
		e.strengths = append(e.strengths, "Yeterli personel kapasitesi")
	case p.EmployeeCount >= 20:
		e.score += 8
	case p.EmployeeCount < 5:
		e.score -= 10
		e.weaknesses = append(e.weaknesses, "Personel sayısı düşük")
	}

	e.score = clamp(e.score, 0, 100)
	return e
}

func evalReference(p *models.CompanyProfile) categoryEval {
	e := categoryEval{score: 50}

	switch n := len(p.ReferenceProjects); {
	case n >= 10:
		e.score += 35
		e.strengths = append(e.strengths, "Geniş referans proje portföyü")
	case n >= 5:
		e.score += 25
	case n >= 1:
		e.score += 10
	default:
		e.score -= 20
		e.missing = append(e.missing, "Referans iş bitirme belgesi eksik")
		e.recommendations = append(e.recommendations, "Benzer işlerde alt yüklenici referansı edinin")
	}

	e.score = clamp(e.score, 0, 100)
	return e
}

func evalEquipment(p *models.CompanyProfile) categoryEval {
	e := categoryEval{score: 60}

	switch n := len(p.Equipment); {
	case n >= 20:
		e.score += 30
		e.strengths = append(e.strengths, "Geniş makine/ekipman parkı")
	case n >= 10:
		e.score += 20
	case n >= 3:
		e.score += 10
	default:
		e.score -= 20
		e.missing = append(e.missing, "Ekipman listesi eksik")
	}

	e.score = clamp(e.score, 0, 100)
	return e
}

func evalGeneral(p *models.CompanyProfile, analysis *models.AnalysisResult) categoryEval {
	e := categoryEval{score: 60}

	if p.FoundingYear <= 0 {
		e.missing = append(e.missing, "Kuruluş yılı bilgisi eksik")
	} else {
		switch age := time.Now().Year() - p.FoundingYear; {
		case age >= 15:
			e.score += 20
			e.strengths = append(e.strengths, "15 yılı aşkın sektör tecrübesi")
		case age >= 5:
			e.score += 10
		case age < 3:
			e.score -= 10
			e.weaknesses = append(e.weaknesses, "Firma yaşı 3 yıldan az")
		}
	}

	if analysis != nil && analysis.RiskScore > 70 {
		e.score -= 15
		e.weaknesses = append(e.weaknesses, "İhalenin risk skoru yüksek")
		e.recommendations = append(e.recommendations, "Sözleşme ve ceza maddelerini hukuk ekibiyle inceleyin")
	}

	e.score = clamp(e.score, 0, 100)
	return e
}

func hasCertification(certs []string, name string) bool {
	for _, c := range certs {
		if strings.Contains(strings.ToUpper(c), strings.ToUpper(name)) {
			return true
		}
	}
	return false
}

// mergeNotes concatenates category notes in a fixed category order and caps
// the merged list so payloads stay bounded.
func mergeNotes(limit int, evals map[string]categoryEval, pick func(categoryEval) []string) []string {
	merged := []string{}
	for _, cat := range []string{"financial", "technical", "reference", "equipment", "general"} {
		merged = append(merged, pick(evals[cat])...)
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
