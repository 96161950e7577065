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

// NewCompareHandler returns an http.HandlerFunc for POST /api/v1/compare.
// Ranks previously analyzed tenders side by side.
func NewCompareHandler(st store.Store, ca cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req struct {
			TenderIDs []string `json:"tender_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		// Bounds are checked before any store round trips.
		if len(req.TenderIDs) < 2 {
			response.Error(w, http.StatusBadRequest, "NOT_ENOUGH_RECORDS",
				"At least 2 analyzed tenders are required for comparison", nil)
			return
		}
		if len(req.TenderIDs) > 5 {
			response.Error(w, http.StatusBadRequest, "TOO_MANY_RECORDS",
				"At most 5 tenders can be compared at once", nil)
			return
		}

		items := make([]scoring.CompareItem, 0, len(req.TenderIDs))
		for _, raw := range req.TenderIDs {
			tenderID, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"tender_ids must be valid UUIDs", nil)
				return
			}

			tender, err := st.GetTender(r.Context(), tenderID, tenantID)
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND",
					"Tender "+raw+" not found", nil)
				return
			}
			if err != nil {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"Failed to fetch tender", nil)
				return
			}

			analysis, found, _ := ca.GetAnalysis(r.Context(), tenantID, tenderID)
			if !found {
				analysis, err = st.GetAnalysisResultByTenderID(r.Context(), tenderID)
				if errors.Is(err, store.ErrNotFound) {
					response.Error(w, http.StatusConflict, "NOT_ANALYZED",
						"Tender "+raw+" has not been analyzed yet", nil)
					return
				}
				if err != nil {
					response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
						"Failed to fetch analysis result", nil)
					return
				}
			}

			items = append(items, scoring.CompareItem{
				FileName: tender.FileName,
				Analysis: analysis,
			})
		}

		result, err := scoring.Compare(items)
		if err != nil {
			// Bounds were validated above; any error here is unexpected.
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Comparison failed", nil)
			return
		}

		response.JSON(w, result)
	}
}
