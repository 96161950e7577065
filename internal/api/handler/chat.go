package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/tenderscope/tenderscope/internal/ai"
	mw "github.com/tenderscope/tenderscope/internal/api/middleware"
	"github.com/tenderscope/tenderscope/internal/api/response"
	"github.com/tenderscope/tenderscope/internal/store"
	"github.com/tenderscope/tenderscope/pkg/models"
)

const maxChatHistory = 20

// Chatter defines the chat operation the handler depends on.
type Chatter interface {
	Chat(ctx context.Context, tender *models.Tender, history []models.ChatMessage, question string) (string, error)
}

// NewChatHandler returns an http.HandlerFunc for POST /api/v1/chat.
func NewChatHandler(svc Chatter, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req struct {
			TenderID string               `json:"tender_id"`
			Question string               `json:"question"`
			History  []models.ChatMessage `json:"history"`
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
		if len(req.History) > maxChatHistory {
			req.History = req.History[len(req.History)-maxChatHistory:]
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

		answer, err := svc.Chat(r.Context(), tender, req.History, req.Question)
		if err != nil {
			switch {
			case errors.Is(err, ai.ErrEmptyQuestion):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "question is required", nil)
			case errors.Is(err, ai.ErrEmptyDocument):
				response.Error(w, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT",
					"The tender document has no text to chat about", nil)
			case errors.Is(err, models.ErrRateLimited):
				response.Error(w, http.StatusTooManyRequests, "AI_RATE_LIMITED",
					"The AI provider is rate limiting requests, try again shortly", nil)
			case errors.Is(err, models.ErrProviderUnavailable):
				response.Error(w, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE",
					"The AI provider is not available", nil)
			case errors.Is(err, models.ErrInferenceTimeout):
				response.Error(w, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT",
					"The answer took too long and was cancelled", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, map[string]string{"answer": answer})
	}
}
