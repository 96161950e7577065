package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderscope/tenderscope/pkg/models"
	"github.com/tenderscope/tenderscope/internal/config"
)

func newTestProvider(baseURL string) *Provider {
	return NewProvider(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
		BaseURL: baseURL,
	}, 5*time.Second)
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "analiz et", req.Contents[0].Parts[0].Text)
		assert.Equal(t, 0.1, req.GenerationConfig.Temperature)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"ozet\":\"tamam\"}"}]}}]}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	out, err := p.Generate(context.Background(), "analiz et")
	require.NoError(t, err)
	assert.Equal(t, `{"ozet":"tamam"}`, out)
}

func TestGenerateJoinsParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"bir"},{"text":"iki"}]}}]}`))
	}))
	defer srv.Close()

	out, err := newTestProvider(srv.URL).Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "biriki", out)
}

func TestGenerateRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRateLimited)
}

func TestGenerateBodyLevelResourceExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRateLimited)
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrRateLimited)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "x")
	assert.ErrorIs(t, err, models.ErrEmptyResponse)
}

func TestGenerateUnreachable(t *testing.T) {
	p := newTestProvider("http://127.0.0.1:1")
	_, err := p.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
}
