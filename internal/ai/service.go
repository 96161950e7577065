package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tenderscope/tenderscope/internal/cache"
	"github.com/tenderscope/tenderscope/internal/extract"
	"github.com/tenderscope/tenderscope/internal/prompt"
	"github.com/tenderscope/tenderscope/internal/scoring"
	"github.com/tenderscope/tenderscope/internal/store"
	"github.com/tenderscope/tenderscope/pkg/models"
)

const (
	// costPerThousandTokens is the flat blended rate used for cost estimates.
	costPerThousandTokens = 0.000125

	// tokensPerWord converts response word counts into a token estimate.
	tokensPerWord = 2
)

const jobStatusTTL = 30 * time.Minute
const analysisCacheTTL = 24 * time.Hour

// AnalysisService orchestrates the specification analysis pipeline.
// Per-attempt deadlines live in the provider stack (see ai.WithRetry), so the
// service itself passes caller contexts straight through.
type AnalysisService struct {
	provider models.ModelProvider
	catalog  *prompt.Catalog
	store    store.Store
	cache    cache.Cache
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(provider models.ModelProvider, catalog *prompt.Catalog, st store.Store, ca cache.Cache) *AnalysisService {
	return &AnalysisService{
		provider: provider,
		catalog:  catalog,
		store:    st,
		cache:    ca,
	}
}

// Analyze runs every pipeline step against the tender document and returns
// the assembled result. A failed step yields an empty section; the pipeline
// keeps going so one flaky call does not discard five good ones.
func (s *AnalysisService) Analyze(ctx context.Context, tender *models.Tender) (*models.AnalysisResult, error) {
	doc := strings.TrimSpace(tender.Text)
	if doc == "" {
		return nil, ErrEmptyDocument
	}

	started := time.Now()
	result := &models.AnalysisResult{
		ID:        uuid.New(),
		TenantID:  tender.TenantID,
		TenderID:  tender.ID,
		Provider:  s.provider.Name(),
		Model:     s.provider.Model(),
		CreatedAt: time.Now().UTC(),
	}

	totalWords := 0
	for _, step := range s.catalog.Order() {
		var p string
		var err error
		if step == models.StepExecutiveSummary {
			// The executive summary reads the risk and financial outputs,
			// so it must run after them.
			p, err = s.catalog.RenderExecutive(doc, result.RiskAnalysis, result.FinancialSummary)
		} else {
			p, err = s.catalog.Render(step, doc)
		}
		if err != nil {
			return nil, fmt.Errorf("rendering %s prompt: %w", step, err)
		}

		raw, err := s.provider.Generate(ctx, p)
		if err != nil {
			slog.Warn("pipeline step failed", "step", step, "tender_id", tender.ID, "error", err)
			result.SetStep(step, models.StepResult{})
			continue
		}

		// The token estimate counts response words only.
		totalWords += len(strings.Fields(raw))
		result.SetStep(step, extract.Object(raw))
	}

	result.TokensUsed = totalWords * tokensPerWord
	result.CostUSD = float64(result.TokensUsed) / 1000 * costPerThousandTokens
	result.RiskScore = scoring.RiskScore(result.RiskAnalysis)
	result.RiskLevel = scoring.RiskLevel(result.RiskScore)
	result.AnalysisTime = time.Since(started).Seconds()

	return result, nil
}

// TriggerAnalysis creates a pending job and dispatches analysis in a background goroutine.
// Returns the job immediately without waiting for analysis to complete.
func (s *AnalysisService) TriggerAnalysis(ctx context.Context, tender *models.Tender) (*models.Job, error) {
	if tender.ID == uuid.Nil {
		return nil, fmt.Errorf("invalid tender: ID is required")
	}
	if strings.TrimSpace(tender.Text) == "" {
		return nil, ErrEmptyDocument
	}

	job := &models.Job{
		ID:        uuid.New(),
		TenantID:  tender.TenantID,
		Type:      "analysis",
		Status:    models.JobStatusPending,
		TenderID:  &tender.ID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	_ = s.cache.SetJobStatus(ctx, job.ID, models.JobStatusPending, jobStatusTTL)

	go s.runAnalysis(tender, job.ID)

	return job, nil
}

// runAnalysis performs the actual analysis in a goroutine.
// It recovers from panics and always marks the job as completed or failed.
func (s *AnalysisService) runAnalysis(tender *models.Tender, jobID uuid.UUID) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in runAnalysis", "error", r, "job_id", jobID)
			_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed,
				store.WithErrorMessage(fmt.Sprintf("panic: %v", r)))
			_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, jobStatusTTL)
		}
	}()

	_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusRunning)
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusRunning, jobStatusTTL)

	result, err := s.Analyze(ctx, tender)
	if err != nil {
		_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed,
			store.WithErrorMessage(err.Error()))
		_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, jobStatusTTL)
		return
	}

	result.JobID = jobID
	if err := s.store.CreateAnalysisResult(ctx, result); err != nil {
		_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed,
			store.WithErrorMessage(fmt.Sprintf("storing result: %v", err)))
		_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, jobStatusTTL)
		return
	}

	_ = s.cache.SetAnalysis(ctx, tender.TenantID, tender.ID, result, analysisCacheTTL)

	_ = s.store.UpdateJobStatus(ctx, jobID, models.JobStatusCompleted,
		store.WithTenderID(tender.ID))
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusCompleted, jobStatusTTL)
}

// Chat answers a question about the tender document, threading prior turns
// into the prompt so follow-up questions keep their context.
func (s *AnalysisService) Chat(ctx context.Context, tender *models.Tender, history []models.ChatMessage, question string) (string, error) {
	if strings.TrimSpace(tender.Text) == "" {
		return "", ErrEmptyDocument
	}
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	answer, err := s.provider.Generate(ctx, prompt.Chat(tender.Text, history, question))
	if err != nil {
		return "", err
	}
	return answer, nil
}
