package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tenderscope/tenderscope/internal/ai"
	mw "github.com/tenderscope/tenderscope/internal/api/middleware"
	"github.com/tenderscope/tenderscope/internal/api/response"
	"github.com/tenderscope/tenderscope/internal/cache"
	"github.com/tenderscope/tenderscope/internal/store"
	"github.com/tenderscope/tenderscope/pkg/models"
)

// Analyzer defines the analysis operations the handlers depend on.
type Analyzer interface {
	TriggerAnalysis(ctx context.Context, tender *models.Tender) (*models.Job, error)
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
// Responds 202 with a job the client polls for completion.
func NewAnalyzeHandler(svc Analyzer, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req struct {
			TenderID string `json:"tender_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		tenderID, err := uuid.Parse(req.TenderID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "tender_id must be a valid UUID", nil)
			return
		}

		tender, err := st.GetTender(r.Context(), tenderID, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Tender not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to fetch tender", nil)
			return
		}

		job, err := svc.TriggerAnalysis(r.Context(), tender)
		if err != nil {
			if errors.Is(err, ai.ErrEmptyDocument) {
				response.Error(w, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT",
					"The tender document has no text to analyze", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to start analysis", nil)
			return
		}

		response.Accepted(w, job)
	}
}

type pollResponse struct {
	Job    *models.Job            `json:"job"`
	Result *models.AnalysisResult `json:"result,omitempty"`
}

// NewPollJobHandler returns an http.HandlerFunc for GET /api/v1/analyze/{jobID}.
// The cached status short-circuits the common polling case; the result is
// attached once the job completes.
func NewPollJobHandler(st store.Store, ca cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job ID", nil)
			return
		}

		// Fast path: while the job is still in flight, answer from cache
		// without touching Postgres.
		if status, found, _ := ca.GetJobStatus(r.Context(), jobID); found &&
			(status == models.JobStatusPending || status == models.JobStatusRunning) {
			response.JSON(w, pollResponse{Job: &models.Job{ID: jobID, TenantID: tenantID, Status: status}})
			return
		}

		job, err := st.GetJob(r.Context(), jobID, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to fetch job", nil)
			return
		}

		resp := pollResponse{Job: job}
		if job.Status == models.JobStatusCompleted {
			result, err := st.GetAnalysisResultByJobID(r.Context(), jobID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"Failed to fetch analysis result", nil)
				return
			}
			resp.Result = result
		}

		response.JSON(w, resp)
	}
}
