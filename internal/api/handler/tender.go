package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/tenderscope/tenderscope/internal/api/middleware"
	"github.com/tenderscope/tenderscope/internal/api/response"
	"github.com/tenderscope/tenderscope/internal/document"
	"github.com/tenderscope/tenderscope/internal/store"
	"github.com/tenderscope/tenderscope/pkg/models"
)

// NewUploadTenderHandler returns an http.HandlerFunc for POST /api/v1/tenders.
// Accepts a multipart form with a single "file" field, extracts the document
// text, and persists the tender.
func NewUploadTenderHandler(st store.Store, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				"Uploaded file exceeds the size limit", nil)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Multipart field 'file' is required", nil)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Could not read upload", nil)
			return
		}

		parsed, err := document.Parse(data, header.Filename)
		if err != nil {
			switch {
			case errors.Is(err, document.ErrUnsupportedFormat):
				response.Error(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT",
					"Only PDF and plain text documents are supported", nil)
			case errors.Is(err, document.ErrNoText):
				response.Error(w, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT",
					"No text could be extracted from the document", nil)
			default:
				response.Error(w, http.StatusUnprocessableEntity, "PARSE_FAILED",
					"The document could not be parsed", nil)
			}
			return
		}

		now := time.Now().UTC()
		tender := &models.Tender{
			ID:        uuid.New(),
			TenantID:  tenantID,
			FileName:  header.Filename,
			FileSize:  int64(len(data)),
			PageCount: parsed.PageCount,
			Text:      parsed.Text,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := st.CreateTender(r.Context(), tender); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to store tender", nil)
			return
		}

		response.Created(w, tender)
	}
}

// NewListTendersHandler returns an http.HandlerFunc for GET /api/v1/tenders.
func NewListTendersHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		filter := store.TenderFilter{
			TenantID: tenantID,
			FileName: r.URL.Query().Get("file_name"),
			Page:     page,
			Limit:    limit,
		}
		if since := r.URL.Query().Get("since"); since != "" {
			ts, err := time.Parse(time.RFC3339, since)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"since must be a valid RFC3339 timestamp", nil)
				return
			}
			filter.Since = ts
		}

		tenders, total, err := st.ListTenders(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list tenders", nil)
			return
		}

		if page <= 0 {
			page = 1
		}
		if limit <= 0 {
			limit = 20
		}
		if tenders == nil {
			tenders = []*models.Tender{}
		}
		response.Collection(w, tenders, response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}

// NewGetTenderHandler returns an http.HandlerFunc for GET /api/v1/tenders/{tenderID}.
func NewGetTenderHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		tenderID, err := uuid.Parse(chi.URLParam(r, "tenderID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid tender ID", nil)
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

		response.JSON(w, tender)
	}
}

// NewDeleteTenderHandler returns an http.HandlerFunc for DELETE /api/v1/tenders/{tenderID}.
func NewDeleteTenderHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		tenderID, err := uuid.Parse(chi.URLParam(r, "tenderID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid tender ID", nil)
			return
		}

		err = st.DeleteTender(r.Context(), tenderID, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Tender not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to delete tender", nil)
			return
		}

		response.NoContent(w)
	}
}
