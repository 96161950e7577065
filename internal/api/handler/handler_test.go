package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/tenderscope/tenderscope/internal/api/middleware"
	"github.com/tenderscope/tenderscope/internal/store"
	"github.com/tenderscope/tenderscope/pkg/models"
)

// --- fake store ---

type fakeStore struct {
	tenders       map[uuid.UUID]*models.Tender
	jobs          map[uuid.UUID]*models.Job
	byTender      map[uuid.UUID]*models.AnalysisResult
	byJob         map[uuid.UUID]*models.AnalysisResult
	profile       *models.CompanyProfile
	keys          []*models.APIKey
	createdTender *models.Tender

	err error // when set, every method fails with it
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenders:  map[uuid.UUID]*models.Tender{},
		jobs:     map[uuid.UUID]*models.Job{},
		byTender: map[uuid.UUID]*models.AnalysisResult{},
		byJob:    map[uuid.UUID]*models.AnalysisResult{},
	}
}

func (f *fakeStore) Ping(_ context.Context) error { return f.err }
func (f *fakeStore) GetDefaultTenant(_ context.Context) (*models.Tenant, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStore) GetAPIKeyByPrefix(_ context.Context, _ string) ([]*models.APIKey, error) {
	return nil, nil
}
func (f *fakeStore) UpdateAPIKeyLastUsed(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeStore) CreateAPIKey(_ context.Context, key *models.APIKey) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}
func (f *fakeStore) ListAPIKeys(_ context.Context, _ uuid.UUID) ([]*models.APIKey, error) {
	return f.keys, f.err
}
func (f *fakeStore) RevokeAPIKey(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	for _, k := range f.keys {
		if k.ID == id {
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) CreateTender(_ context.Context, tender *models.Tender) error {
	if f.err != nil {
		return f.err
	}
	f.createdTender = tender
	f.tenders[tender.ID] = tender
	return nil
}
func (f *fakeStore) GetTender(_ context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Tender, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tenders[id]
	if !ok || t.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return t, nil
}
func (f *fakeStore) ListTenders(_ context.Context, _ store.TenderFilter) ([]*models.Tender, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]*models.Tender, 0, len(f.tenders))
	for _, t := range f.tenders {
		out = append(out, t)
	}
	return out, len(out), nil
}
func (f *fakeStore) DeleteTender(_ context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	t, ok := f.tenders[id]
	if !ok || t.TenantID != tenantID {
		return store.ErrNotFound
	}
	delete(f.tenders, id)
	return nil
}

func (f *fakeStore) CreateAnalysisResult(_ context.Context, result *models.AnalysisResult) error {
	if f.err != nil {
		return f.err
	}
	f.byTender[result.TenderID] = result
	f.byJob[result.JobID] = result
	return nil
}
func (f *fakeStore) GetAnalysisResultByJobID(_ context.Context, jobID uuid.UUID) (*models.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	res, ok := f.byJob[jobID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return res, nil
}
func (f *fakeStore) GetAnalysisResultByTenderID(_ context.Context, tenderID uuid.UUID) (*models.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	res, ok := f.byTender[tenderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return res, nil
}

func (f *fakeStore) CreateJob(_ context.Context, job *models.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs[job.ID] = job
	return nil
}
func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	j, ok := f.jobs[id]
	if !ok || j.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return j, nil
}
func (f *fakeStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status string, _ ...store.JobUpdateOption) error {
	if f.err != nil {
		return f.err
	}
	if j, ok := f.jobs[id]; ok {
		j.Status = status
	}
	return nil
}

func (f *fakeStore) UpsertCompanyProfile(_ context.Context, profile *models.CompanyProfile) error {
	if f.err != nil {
		return f.err
	}
	f.profile = profile
	return nil
}
func (f *fakeStore) GetCompanyProfile(_ context.Context, tenantID uuid.UUID) (*models.CompanyProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil || f.profile.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return f.profile, nil
}

// --- fake cache ---

type analysisKey struct {
	tenantID uuid.UUID
	tenderID uuid.UUID
}

type fakeCache struct {
	statuses map[uuid.UUID]string
	analyses map[analysisKey]*models.AnalysisResult
	pingErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		statuses: map[uuid.UUID]string{},
		analyses: map[analysisKey]*models.AnalysisResult{},
	}
}

func (f *fakeCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (f *fakeCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (f *fakeCache) Delete(_ context.Context, _ string) error                          { return nil }
func (f *fakeCache) Ping(_ context.Context) error                                      { return f.pingErr }
func (f *fakeCache) SetJobStatus(_ context.Context, jobID uuid.UUID, status string, _ time.Duration) error {
	f.statuses[jobID] = status
	return nil
}
func (f *fakeCache) GetJobStatus(_ context.Context, jobID uuid.UUID) (string, bool, error) {
	s, ok := f.statuses[jobID]
	return s, ok, nil
}
func (f *fakeCache) SetAnalysis(_ context.Context, tenantID, tenderID uuid.UUID, result *models.AnalysisResult, _ time.Duration) error {
	f.analyses[analysisKey{tenantID, tenderID}] = result
	return nil
}
func (f *fakeCache) GetAnalysis(_ context.Context, tenantID, tenderID uuid.UUID) (*models.AnalysisResult, bool, error) {
	res, ok := f.analyses[analysisKey{tenantID, tenderID}]
	return res, ok, nil
}
func (f *fakeCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

// --- request helpers ---

func jsonReq(t *testing.T, method, target string, body any, tenantID uuid.UUID) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r.WithContext(mw.SetTenantID(r.Context(), tenantID))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, wantCode int) map[string]any {
	t.Helper()
	if rec.Code != wantCode {
		t.Fatalf("expected %d, got %d: %s", wantCode, rec.Code, rec.Body.String())
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func jsonDecode(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Error.Code
}

// --- shared fixtures ---

func storedTender(f *fakeStore, tenantID uuid.UUID, text string) *models.Tender {
	t := &models.Tender{
		ID:        uuid.New(),
		TenantID:  tenantID,
		FileName:  "sartname.pdf",
		FileSize:  2048,
		PageCount: 3,
		Text:      text,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.tenders[t.ID] = t
	return t
}

func storedAnalysis(f *fakeStore, tender *models.Tender, score int, level string) *models.AnalysisResult {
	res := &models.AnalysisResult{
		ID:        uuid.New(),
		TenantID:  tender.TenantID,
		TenderID:  tender.ID,
		JobID:     uuid.New(),
		Provider:  "gemini",
		Model:     "gemini-2.0-flash",
		RiskScore: score,
		RiskLevel: level,
		RiskAnalysis: models.StepResult{
			"toplam_risk_skoru": float64(score),
		},
		FinancialSummary: models.StepResult{
			"yaklasik_maliyet": "12.500.000 TL",
		},
		CreatedAt: time.Now().UTC(),
	}
	f.byTender[tender.ID] = res
	f.byJob[res.JobID] = res
	return res
}

var errBoom = errors.New("boom")
