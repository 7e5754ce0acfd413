package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiq-ai/critiq/internal/config"
	"github.com/critiq-ai/critiq/internal/core"
	"github.com/critiq-ai/critiq/internal/gitutil"
	"github.com/critiq-ai/critiq/internal/llm"
	"github.com/critiq-ai/critiq/internal/review"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) Generate(context.Context, string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Name() string { return "stub-model" }

func newTestHandler(t *testing.T, gen llm.Generator) *ReviewHandler {
	t.Helper()
	prompts, err := llm.NewPromptManager()
	require.NoError(t, err)

	cfg := &config.Config{
		LLMProvider: "gemini",
		ModelName:   "stub-model",
		MaxFiles:    config.DefaultMaxFiles,
		MaxChars:    config.DefaultMaxChars,
		ChunkSize:   config.DefaultChunkSize,
		LLMTimeout:  config.DefaultLLMTimeout,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := review.NewService(gen, prompts, gitutil.NewClient(logger), cfg, logger)
	return NewReviewHandler(svc, logger)
}

func postJSON(t *testing.T, fn http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestAnalyzeFileWithInlineCode(t *testing.T) {
	gen := &stubGenerator{response: "# Review Summary\nTidy.\n"}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.AnalyzeFile, map[string]string{
		"code":     "print('hi')",
		"language": "python",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var r core.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, "# Review Summary\nTidy.\n", r.Text)
	assert.Equal(t, "stub-model", r.Model)
}

func TestAnalyzeFileWithServerPath(t *testing.T) {
	gen := &stubGenerator{response: "reviewed"}
	h := newTestHandler(t, gen)

	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0644))

	rec := postJSON(t, h.AnalyzeFile, map[string]string{"path": path})
	require.Equal(t, http.StatusOK, rec.Code)

	var fa core.FileAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fa))
	assert.Equal(t, "go", fa.Language)
	assert.Equal(t, "reviewed", fa.Review.Text)
}

func TestAnalyzeFileRequiresInput(t *testing.T) {
	h := newTestHandler(t, &stubGenerator{response: "never"})

	rec := postJSON(t, h.AnalyzeFile, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRepoBadPath(t *testing.T) {
	gen := &stubGenerator{response: "never"}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.AnalyzeRepo, map[string]string{"repo": t.TempDir()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, gen.calls)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "git access error")
}

func TestSuggestAlgorithmsHandler(t *testing.T) {
	gen := &stubGenerator{response: "use a map"}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.SuggestAlgorithms, map[string]string{
		"code":     "for {}",
		"language": "go",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var aa core.AlgorithmAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aa))
	assert.Equal(t, "use a map", aa.Review.Text)
}

func TestSuggestAlgorithmsEmptyCodeRejected(t *testing.T) {
	gen := &stubGenerator{response: "never"}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.SuggestAlgorithms, map[string]string{"code": "  ", "language": "go"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, gen.calls)
}

func TestChatSessionsAreIndependent(t *testing.T) {
	gen := &stubGenerator{response: "a reply"}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.Chat, map[string]string{"session_id": "s1", "message": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a reply", resp.Reply)
	assert.Equal(t, "s1", resp.SessionID)

	// Same id reuses the session, a new id gets a fresh one.
	assert.Same(t, h.session("s1"), h.session("s1"))
	assert.NotSame(t, h.session("s1"), h.session("s2"))
}

func TestChatRequiresSessionID(t *testing.T) {
	h := newTestHandler(t, &stubGenerator{response: "never"})

	rec := postJSON(t, h.Chat, map[string]string{"message": "hello"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusForAPIErrorKinds(t *testing.T) {
	tests := []struct {
		kind llm.ErrorKind
		want int
	}{
		{llm.ErrKindAuth, http.StatusBadGateway},
		{llm.ErrKindRateLimit, http.StatusTooManyRequests},
		{llm.ErrKindNetwork, http.StatusGatewayTimeout},
		{llm.ErrKindProvider, http.StatusBadGateway},
	}
	for _, tt := range tests {
		err := &llm.APIError{Kind: tt.kind, Err: errors.New("x")}
		assert.Equal(t, tt.want, statusFor(err), "kind %s", tt.kind)
	}
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("other")))
}

func TestInvalidJSONBody(t *testing.T) {
	h := newTestHandler(t, &stubGenerator{response: "never"})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.SuggestAlgorithms(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
