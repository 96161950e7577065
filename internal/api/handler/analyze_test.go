package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tenderscope/tenderscope/internal/ai"
	"github.com/tenderscope/tenderscope/pkg/models"
)

type fakeAnalyzer struct {
	job *models.Job
	err error
	got *models.Tender
}

func (f *fakeAnalyzer) TriggerAnalysis(_ context.Context, tender *models.Tender) (*models.Job, error) {
	f.got = tender
	return f.job, f.err
}

func TestAnalyzeHandler_Accepted(t *testing.T) {
	fs := newFakeStore()
	tid := uuid.New()
	tender := storedTender(fs, tid, "İhale dokümanı")

	job := &models.Job{
		ID:        uuid.New(),
		TenantID:  tid,
		Type:      "tender_analysis",
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	svc := &fakeAnalyzer{job: job}

	h := NewAnalyzeHandler(svc, fs)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/analyze",
		map[string]string{"tender_id": tender.ID.String()}, tid))

	data := decodeData(t, rec, http.StatusAccepted)
	if data["id"] != job.ID.String() {
		t.Errorf("unexpected job id: %v", data["id"])
	}
	if data["status"] != models.JobStatusPending {
		t.Errorf("unexpected status: %v", data["status"])
	}
	if svc.got == nil || svc.got.ID != tender.ID {
		t.Error("analyzer did not receive the tender")
	}
}

func TestAnalyzeHandler_TenderNotFound(t *testing.T) {
	h := NewAnalyzeHandler(&fakeAnalyzer{}, newFakeStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/analyze",
		map[string]string{"tender_id": uuid.New().String()}, uuid.New()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAnalyzeHandler_BadTenderID(t *testing.T) {
	h := NewAnalyzeHandler(&fakeAnalyzer{}, newFakeStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/analyze",
		map[string]string{"tender_id": "nope"}, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyzeHandler_EmptyDocument(t *testing.T) {
	fs := newFakeStore()
	tid := uuid.New()
	tender := storedTender(fs, tid, "")

	h := NewAnalyzeHandler(&fakeAnalyzer{err: ai.ErrEmptyDocument}, fs)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/analyze",
		map[string]string{"tender_id": tender.ID.String()}, tid))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if code := decodeErr(t, rec); code != "EMPTY_DOCUMENT" {
		t.Errorf("unexpected code: %s", code)
	}
}

func TestPollJob_CacheFastPath(t *testing.T) {
	fs := newFakeStore()
	fc := newFakeCache()
	tid := uuid.New()
	jobID := uuid.New()
	fc.statuses[jobID] = models.JobStatusRunning

	h := NewPollJobHandler(fs, fc)
	r := jsonReq(t, http.MethodGet, "/api/v1/analyze/"+jobID.String(), nil, tid)
	r = withURLParam(r, "jobID", jobID.String())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	data := decodeData(t, rec, http.StatusOK)
	jobData := data["job"].(map[string]any)
	if jobData["status"] != models.JobStatusRunning {
		t.Errorf("unexpected status: %v", jobData["status"])
	}
	if _, ok := data["result"]; ok {
		t.Error("in-flight job must not carry a result")
	}
}

func TestPollJob_CompletedAttachesResult(t *testing.T) {
	fs := newFakeStore()
	fc := newFakeCache()
	tid := uuid.New()
	tender := storedTender(fs, tid, "doc")
	analysis := storedAnalysis(fs, tender, 42, "ORTA")

	fs.jobs[analysis.JobID] = &models.Job{
		ID:       analysis.JobID,
		TenantID: tid,
		Status:   models.JobStatusCompleted,
	}

	h := NewPollJobHandler(fs, fc)
	r := jsonReq(t, http.MethodGet, "/api/v1/analyze/"+analysis.JobID.String(), nil, tid)
	r = withURLParam(r, "jobID", analysis.JobID.String())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	data := decodeData(t, rec, http.StatusOK)
	result, ok := data["result"].(map[string]any)
	if !ok {
		t.Fatal("completed job must carry the analysis result")
	}
	if result["risk_score"] != float64(42) {
		t.Errorf("unexpected risk_score: %v", result["risk_score"])
	}
}

func TestPollJob_Failed(t *testing.T) {
	fs := newFakeStore()
	tid := uuid.New()
	jobID := uuid.New()
	msg := "analysis failed"
	fs.jobs[jobID] = &models.Job{
		ID:           jobID,
		TenantID:     tid,
		Status:       models.JobStatusFailed,
		ErrorMessage: &msg,
	}

	h := NewPollJobHandler(fs, newFakeCache())
	r := jsonReq(t, http.MethodGet, "/api/v1/analyze/"+jobID.String(), nil, tid)
	r = withURLParam(r, "jobID", jobID.String())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	data := decodeData(t, rec, http.StatusOK)
	jobData := data["job"].(map[string]any)
	if jobData["status"] != models.JobStatusFailed {
		t.Errorf("unexpected status: %v", jobData["status"])
	}
	if jobData["error_message"] != msg {
		t.Errorf("unexpected error_message: %v", jobData["error_message"])
	}
}

func TestPollJob_NotFound(t *testing.T) {
	h := NewPollJobHandler(newFakeStore(), newFakeCache())
	id := uuid.New().String()
	r := jsonReq(t, http.MethodGet, "/api/v1/analyze/"+id, nil, uuid.New())
	r = withURLParam(r, "jobID", id)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
