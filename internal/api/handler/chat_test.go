package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/tenderscope/tenderscope/internal/ai"
	"github.com/tenderscope/tenderscope/pkg/models"
)

type fakeChatter struct {
	answer  string
	err     error
	history []models.ChatMessage
}

func (f *fakeChatter) Chat(_ context.Context, _ *models.Tender, history []models.ChatMessage, _ string) (string, error) {
	f.history = history
	return f.answer, f.err
}

func chatBody(tenderID uuid.UUID, question string, history []models.ChatMessage) map[string]any {
	return map[string]any{
		"tender_id": tenderID.String(),
		"question":  question,
		"history":   history,
	}
}

func TestChatHandler_Success(t *testing.T) {
	fs := newFakeStore()
	tid := uuid.New()
	tender := storedTender(fs, tid, "İhale dokümanı")

	svc := &fakeChatter{answer: "Teminat oranı %3'tür."}
	h := NewChatHandler(svc, fs)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/chat",
		chatBody(tender.ID, "Teminat oranı nedir?", nil), tid))

	data := decodeData(t, rec, http.StatusOK)
	if data["answer"] != "Teminat oranı %3'tür." {
		t.Errorf("unexpected answer: %v", data["answer"])
	}
}

func TestChatHandler_TrimsLongHistory(t *testing.T) {
	fs := newFakeStore()
	tid := uuid.New()
	tender := storedTender(fs, tid, "doc")

	history := make([]models.ChatMessage, 30)
	for i := range history {
		history[i] = models.ChatMessage{Role: models.ChatRoleUser, Content: "soru"}
	}
	history[29].Content = "en son soru"

	svc := &fakeChatter{answer: "ok"}
	h := NewChatHandler(svc, fs)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/chat",
		chatBody(tender.ID, "soru", history), tid))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.history) != maxChatHistory {
		t.Fatalf("expected history trimmed to %d, got %d", maxChatHistory, len(svc.history))
	}
	// The newest turns survive the trim.
	if svc.history[len(svc.history)-1].Content != "en son soru" {
		t.Error("trim dropped the newest message")
	}
}

func TestChatHandler_EmptyQuestion(t *testing.T) {
	fs := newFakeStore()
	tid := uuid.New()
	tender := storedTender(fs, tid, "doc")

	h := NewChatHandler(&fakeChatter{err: ai.ErrEmptyQuestion}, fs)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/chat",
		chatBody(tender.ID, "", nil), tid))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatHandler_TenderNotFound(t *testing.T) {
	h := NewChatHandler(&fakeChatter{}, newFakeStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/chat",
		chatBody(uuid.New(), "soru", nil), uuid.New()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestChatHandler_ProviderErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"rate limited", models.ErrRateLimited, http.StatusTooManyRequests, "AI_RATE_LIMITED"},
		{"unavailable", models.ErrProviderUnavailable, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE"},
		{"timeout", models.ErrInferenceTimeout, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT"},
		{"unexpected", errBoom, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeStore()
			tid := uuid.New()
			tender := storedTender(fs, tid, "doc")

			h := NewChatHandler(&fakeChatter{err: tt.err}, fs)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/chat",
				chatBody(tender.ID, "soru", nil), tid))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if code := decodeErr(t, rec); code != tt.wantErr {
				t.Errorf("unexpected code: %s", code)
			}
		})
	}
}
