package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	mw "github.com/tenderscope/tenderscope/internal/api/middleware"
	"github.com/tenderscope/tenderscope/internal/api/response"
	"github.com/tenderscope/tenderscope/internal/cache"
	"github.com/tenderscope/tenderscope/internal/scoring"
	"github.com/tenderscope/tenderscope/internal/store"
)

// NewMatchHandler returns an http.HandlerFunc for POST /api/v1/match.
// Scores the tenant's company profile against an analyzed tender.
func NewMatchHandler(st store.Store, ca cache.Cache) http.HandlerFunc {
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

		profile, err := st.GetCompanyProfile(r.Context(), tenantID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusConflict, "NO_PROFILE",
				"A company profile must be saved before matching", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to fetch company profile", nil)
			return
		}

		analysis, found, _ := ca.GetAnalysis(r.Context(), tenantID, tenderID)
		if !found {
			analysis, err = st.GetAnalysisResultByTenderID(r.Context(), tenderID)
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusConflict, "NOT_ANALYZED",
					"The tender has not been analyzed yet", nil)
				return
			}
			if err != nil {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"Failed to fetch analysis result", nil)
				return
			}
		}

		response.JSON(w, scoring.Match(profile, analysis))
	}
}
