package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	mw "github.com/tenderscope/tenderscope/internal/api/middleware"
	"github.com/tenderscope/tenderscope/internal/api/response"
	"github.com/tenderscope/tenderscope/internal/store"
	"github.com/tenderscope/tenderscope/pkg/models"
)

// NewGetProfileHandler returns an http.HandlerFunc for GET /api/v1/profile.
func NewGetProfileHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		profile, err := st.GetCompanyProfile(r.Context(), tenantID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Company profile not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to fetch company profile", nil)
			return
		}

		response.JSON(w, profile)
	}
}

// NewPutProfileHandler returns an http.HandlerFunc for PUT /api/v1/profile.
// Creates or replaces the tenant's single company profile.
func NewPutProfileHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req struct {
			CompanyName       string   `json:"company_name"`
			AnnualRevenue     float64  `json:"annual_revenue"`
			BankCreditLimit   float64  `json:"bank_credit_limit"`
			Certifications    []string `json:"certifications"`
			ReferenceProjects []string `json:"reference_projects"`
			Equipment         []string `json:"equipment"`
			EmployeeCount     int      `json:"employee_count"`
			FoundingYear      int      `json:"founding_year"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.CompanyName == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "company_name is required", nil)
			return
		}
		if req.AnnualRevenue < 0 || req.BankCreditLimit < 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"annual_revenue and bank_credit_limit must be non-negative", nil)
			return
		}
		if req.EmployeeCount < 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"employee_count must be non-negative", nil)
			return
		}
		if req.FoundingYear != 0 && (req.FoundingYear < 1900 || req.FoundingYear > time.Now().Year()) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"founding_year is out of range", nil)
			return
		}

		now := time.Now().UTC()
		profile := &models.CompanyProfile{
			ID:                uuid.New(),
			TenantID:          tenantID,
			CompanyName:       req.CompanyName,
			AnnualRevenue:     req.AnnualRevenue,
			BankCreditLimit:   req.BankCreditLimit,
			Certifications:    orEmpty(req.Certifications),
			ReferenceProjects: orEmpty(req.ReferenceProjects),
			Equipment:         orEmpty(req.Equipment),
			EmployeeCount:     req.EmployeeCount,
			FoundingYear:      req.FoundingYear,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := st.UpsertCompanyProfile(r.Context(), profile); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to save company profile", nil)
			return
		}

		response.JSON(w, profile)
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
