package review

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critiq-ai/critiq/internal/config"
	"github.com/critiq-ai/critiq/internal/core"
	"github.com/critiq-ai/critiq/internal/gitutil"
	"github.com/critiq-ai/critiq/internal/llm"
)

// fakeGenerator returns canned responses and records every prompt it saw.
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) Name() string { return "fake-model" }

func newTestService(t *testing.T, gen llm.Generator) *Service {
	t.Helper()
	prompts, err := llm.NewPromptManager()
	require.NoError(t, err)

	cfg := &config.Config{
		LLMProvider: "gemini",
		ModelName:   "fake-model",
		MaxFiles:    config.DefaultMaxFiles,
		MaxChars:    config.DefaultMaxChars,
		ChunkSize:   config.DefaultChunkSize,
		LLMTimeout:  config.DefaultLLMTimeout,
	}
	return NewService(gen, prompts, gitutil.NewClient(nil), cfg, nil)
}

// commitFiles makes one commit touching the given files.
func commitFiles(t *testing.T, dir string, worktree *git.Worktree, msg string, when time.Time, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := worktree.Add(name)
		require.NoError(t, err)
	}
	_, err := worktree.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "author@example.com",
			When:  when,
		},
	})
	require.NoError(t, err)
}

func newTestRepo(t *testing.T, commits int) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < commits; i++ {
		commitFiles(t, dir, worktree, fmt.Sprintf("commit %d", i), base.Add(time.Duration(i)*time.Minute), map[string]string{
			fmt.Sprintf("file%d.go", i): fmt.Sprintf("package main\n\n// revision %d\n", i),
		})
	}
	return dir
}

func TestAnalyzeRepoReviewsEveryCommit(t *testing.T) {
	gen := &fakeGenerator{response: "# Review Summary\nFine.\n"}
	svc := newTestService(t, gen)
	dir := newTestRepo(t, 3)

	analysis, err := svc.AnalyzeRepo(context.Background(), dir, "")
	require.NoError(t, err)

	assert.Len(t, analysis.Commits, 3)
	assert.Len(t, analysis.Reviews, 3)
	assert.Len(t, gen.prompts, 3)

	// Reverse chronological: newest commit is reviewed first.
	assert.Equal(t, "commit 2", strings.TrimSpace(analysis.Commits[0].Message))
	assert.Contains(t, gen.prompts[0], "commit 2")

	for _, r := range analysis.Reviews {
		assert.Equal(t, "# Review Summary\nFine.\n", r.Text)
		assert.Equal(t, "fake-model", r.Model)
		require.NotNil(t, r.Structured)
		assert.Equal(t, "Fine.", r.Structured.Summary)
	}
}

func TestAnalyzeRepoCustomInstructions(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	svc := newTestService(t, gen)
	dir := newTestRepo(t, 1)

	repoCfg := "custom_instructions:\n  - always check error wrapping\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".critiq.yml"), []byte(repoCfg), 0644))

	_, err := svc.AnalyzeRepo(context.Background(), dir, "HEAD")
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "always check error wrapping")
}

func TestAnalyzeRepoExcludesConfiguredPaths(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	svc := newTestService(t, gen)

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	when := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	commitFiles(t, dir, worktree, "add source and docs", when, map[string]string{
		"main.go":        "package main\n",
		"docs/manual.md": "# manual\n",
	})

	repoCfg := "exclude_dirs: [docs]\nexclude_exts: [.lock]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".critiq.yml"), []byte(repoCfg), 0644))

	_, err = svc.AnalyzeRepo(context.Background(), dir, "HEAD")
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "main.go")
	assert.NotContains(t, gen.prompts[0], "docs/manual.md")
}

func TestAnalyzeRepoNotARepository(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	svc := newTestService(t, gen)

	_, err := svc.AnalyzeRepo(context.Background(), t.TempDir(), "")
	require.Error(t, err)

	var accessErr *gitutil.AccessError
	assert.ErrorAs(t, err, &accessErr)
	assert.Empty(t, gen.prompts)
}

func TestAnalyzeRepoNoRetryOnFailure(t *testing.T) {
	gen := &fakeGenerator{err: &llm.APIError{Kind: llm.ErrKindRateLimit, Err: errors.New("429")}}
	svc := newTestService(t, gen)
	dir := newTestRepo(t, 3)

	_, err := svc.AnalyzeRepo(context.Background(), dir, "")
	require.Error(t, err)

	var apiErr *llm.APIError
	assert.ErrorAs(t, err, &apiErr)
	// A failed call is surfaced once, never repeated.
	assert.Len(t, gen.prompts, 1)
}

func TestAnalyzeFile(t *testing.T) {
	gen := &fakeGenerator{response: "# Review Summary\nSolid file.\n"}
	svc := newTestService(t, gen)

	path := filepath.Join(t.TempDir(), "handler.py")
	code := "def handle(req):\n    return req.json()\n"
	require.NoError(t, os.WriteFile(path, []byte(code), 0644))

	fa, err := svc.AnalyzeFile(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, "python", fa.Language)
	assert.Equal(t, len(code), fa.Size)
	assert.Equal(t, 3, fa.Lines)
	assert.Equal(t, "# Review Summary\nSolid file.\n", fa.Review.Text)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "handler.py")
	assert.Contains(t, gen.prompts[0], "def handle(req):")
}

func TestAnalyzeFileChunksOversizedInput(t *testing.T) {
	gen := &fakeGenerator{response: "part review"}
	svc := newTestService(t, gen)
	svc.cfg.MaxChars = 100
	svc.cfg.ChunkSize = 60

	path := filepath.Join(t.TempDir(), "big.go")
	code := strings.Repeat("var filler = 42 // padding line\n", 10)
	require.NoError(t, os.WriteFile(path, []byte(code), 0644))

	fa, err := svc.AnalyzeFile(context.Background(), path, "go")
	require.NoError(t, err)

	assert.Greater(t, len(gen.prompts), 1)
	assert.Contains(t, fa.Review.Text, "---")
	assert.Contains(t, gen.prompts[0], "part 1 of")
}

func TestAnalyzeFileMissing(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	svc := newTestService(t, gen)

	_, err := svc.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "nope.go"), "")
	require.Error(t, err)
	assert.Empty(t, gen.prompts)
}

func TestReviewCode(t *testing.T) {
	gen := &fakeGenerator{response: "# Review Summary\nReadable snippet.\n"}
	svc := newTestService(t, gen)

	r, err := svc.ReviewCode(context.Background(), core.ReviewRequest{
		Code:     "for i := range xs { total += xs[i] }",
		Language: "go",
	})
	require.NoError(t, err)
	assert.Equal(t, "(snippet)", r.Target)
	assert.Equal(t, "# Review Summary\nReadable snippet.\n", r.Text)

	_, err = svc.ReviewCode(context.Background(), core.ReviewRequest{Code: "  "})
	assert.ErrorIs(t, err, ErrEmptyCode)
}

func TestSuggestAlgorithms(t *testing.T) {
	want := "Use a heap here; O(n log k) beats sorting the whole slice."
	gen := &fakeGenerator{response: want}
	svc := newTestService(t, gen)

	aa, err := svc.SuggestAlgorithms(context.Background(), "sort.Slice(xs, less)", "go", "pick top k")
	require.NoError(t, err)

	// The model's text is preserved byte for byte.
	assert.Equal(t, want, aa.Review.Text)
	assert.Equal(t, "go", aa.Language)
	assert.Equal(t, "pick top k", aa.Task)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "pick top k")
	assert.Contains(t, gen.prompts[0], "sort.Slice(xs, less)")
}

func TestSuggestAlgorithmsEmptyCode(t *testing.T) {
	gen := &fakeGenerator{response: "should never be used"}
	svc := newTestService(t, gen)

	for _, code := range []string{"", "   ", "\n\t\n"} {
		_, err := svc.SuggestAlgorithms(context.Background(), code, "go", "")
		assert.ErrorIs(t, err, ErrEmptyCode)
	}
	// Rejected locally: the model is never called.
	assert.Empty(t, gen.prompts)
}

func TestSplitChunks(t *testing.T) {
	t.Run("small input stays whole", func(t *testing.T) {
		chunks := splitChunks("short", 100)
		assert.Equal(t, []string{"short"}, chunks)
	})

	t.Run("splits on line boundaries", func(t *testing.T) {
		code := "line one\nline two\nline three\n"
		chunks := splitChunks(code, 12)
		require.Greater(t, len(chunks), 1)
		assert.Equal(t, code, strings.Join(chunks, ""))
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 12)
		}
	})

	t.Run("splits oversized single line", func(t *testing.T) {
		code := strings.Repeat("x", 25)
		chunks := splitChunks(code, 10)
		assert.Equal(t, code, strings.Join(chunks, ""))
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 10)
		}
	})
}

func TestFilterDiff(t *testing.T) {
	diff := "diff --git a/main.go b/main.go\n+code\n" +
		"diff --git a/docs/guide.md b/docs/guide.md\n+prose\n" +
		"diff --git a/go.sum b/go.sum\n+hash\n"

	repoCfg := &core.RepoConfig{ExcludeDirs: []string{"docs"}, ExcludeExts: []string{"sum"}}
	got := filterDiff(diff, repoCfg, 0)

	assert.Contains(t, got, "main.go")
	assert.NotContains(t, got, "guide.md")
	assert.NotContains(t, got, "go.sum")
}

func TestFilterDiffCapsFileCount(t *testing.T) {
	diff := "diff --git a/a.go b/a.go\n+a\n" +
		"diff --git a/b.go b/b.go\n+b\n" +
		"diff --git a/c.go b/c.go\n+c\n"

	got := filterDiff(diff, core.DefaultRepoConfig(), 2)
	assert.Contains(t, got, "a.go")
	assert.Contains(t, got, "b.go")
	assert.NotContains(t, got, "c.go")
}
