// Package review orchestrates code review: it gathers code or commits,
// renders the matching prompt, sends it to the model, and shapes the result.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/critiq-ai/critiq/internal/config"
	"github.com/critiq-ai/critiq/internal/core"
	"github.com/critiq-ai/critiq/internal/gitutil"
	"github.com/critiq-ai/critiq/internal/llm"
)

// ErrEmptyCode is returned when a request carries no code at all. Such
// requests are rejected locally and never reach the model.
var ErrEmptyCode = errors.New("no code provided")

// Service coordinates git access, prompt rendering and model calls for every
// review operation the application exposes.
type Service struct {
	gen     llm.Generator
	prompts *llm.PromptManager
	git     *gitutil.Client
	cfg     *config.Config
	logger  *slog.Logger
}

func NewService(gen llm.Generator, prompts *llm.PromptManager, git *gitutil.Client, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gen:     gen,
		prompts: prompts,
		git:     git,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *Service) provider() llm.ModelProvider {
	return llm.ModelProvider(s.cfg.LLMProvider)
}

type commitPromptData struct {
	ShortHash    string
	Message      string
	Dimensions   []string
	Instructions []string
	Diff         string
}

// AnalyzeRepo reviews the commits selected by rangeSpec in the repository at
// repoPath, one model call per commit. An empty rangeSpec selects the full
// history from HEAD.
func (s *Service) AnalyzeRepo(ctx context.Context, repoPath, rangeSpec string) (*core.RepoAnalysis, error) {
	commits, err := s.git.ListCommits(repoPath, rangeSpec, 0)
	if err != nil {
		return nil, err
	}

	repoCfg, err := config.LoadRepoConfig(repoPath)
	switch {
	case errors.Is(err, config.ErrRepoConfigNotFound):
		// No .critiq.yml; defaults apply.
	case err != nil:
		s.logger.Warn("ignoring unreadable repo config", "repo", repoPath, "error", err)
		repoCfg = core.DefaultRepoConfig()
	default:
		s.logger.Debug("loaded repo config", "repo", repoPath,
			"instructions", len(repoCfg.CustomInstructions))
	}

	analysis := &core.RepoAnalysis{
		RepoPath:    repoPath,
		CommitRange: rangeSpec,
		Commits:     commits,
	}

	for _, commit := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		diff := filterDiff(commit.Diff, repoCfg, s.cfg.MaxFiles)
		if strings.TrimSpace(diff) == "" {
			s.logger.Debug("skipping commit with no reviewable changes", "commit", commit.ShortHash)
			continue
		}

		prompt, err := s.prompts.Render(llm.CommitReviewPrompt, s.provider(), commitPromptData{
			ShortHash:    commit.ShortHash,
			Message:      commit.Message,
			Dimensions:   core.AllDimensions(),
			Instructions: repoCfg.CustomInstructions,
			Diff:         truncate(diff, s.cfg.MaxChars),
		})
		if err != nil {
			return nil, fmt.Errorf("rendering commit review prompt: %w", err)
		}

		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("reviewing commit %s: %w", commit.ShortHash, err)
		}

		analysis.Reviews = append(analysis.Reviews, s.buildReview(commit.ShortHash, "", text))
	}

	return analysis, nil
}

// AnalyzeRemoteRepo clones a public repository into a temporary directory,
// reviews it and removes the clone again. The analysis reports the URL, not
// the throwaway path.
func (s *Service) AnalyzeRemoteRepo(ctx context.Context, repoURL, rangeSpec string) (*core.RepoAnalysis, error) {
	dir, cleanup, err := s.git.CloneTemp(ctx, repoURL)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	analysis, err := s.AnalyzeRepo(ctx, dir, rangeSpec)
	if err != nil {
		return nil, err
	}
	analysis.RepoPath = repoURL
	return analysis, nil
}

type filePromptData struct {
	FilePath   string
	Language   string
	Dimensions []string
	Code       string
	Part       int
	Parts      int
}

// AnalyzeFile reviews a single source file. Files larger than the configured
// total cap are split into chunks and reviewed chunk by chunk; the responses
// are joined into one review text.
func (s *Service) AnalyzeFile(ctx context.Context, filePath, language string) (*core.FileAnalysis, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	code := string(data)
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrEmptyCode, filePath)
	}
	if language == "" {
		language = DetectLanguage(filePath)
	}

	chunks := []string{code}
	if len(code) > s.cfg.MaxChars {
		chunks = splitChunks(code, s.cfg.ChunkSize)
		s.logger.Info("file exceeds review size, reviewing in chunks",
			"file", filePath, "chars", len(code), "chunks", len(chunks))
	}

	var parts []string
	for i, chunk := range chunks {
		prompt, err := s.prompts.Render(llm.FileReviewPrompt, s.provider(), filePromptData{
			FilePath:   filePath,
			Language:   language,
			Dimensions: core.AllDimensions(),
			Code:       chunk,
			Part:       i + 1,
			Parts:      len(chunks),
		})
		if err != nil {
			return nil, fmt.Errorf("rendering file review prompt: %w", err)
		}

		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("reviewing %s: %w", filePath, err)
		}
		parts = append(parts, text)
	}

	review := s.buildReview(filePath, language, strings.Join(parts, "\n\n---\n\n"))
	return &core.FileAnalysis{
		FilePath: filePath,
		Language: language,
		Size:     len(code),
		Lines:    strings.Count(code, "\n") + 1,
		Review:   review,
	}, nil
}

// ReviewCode reviews a pasted snippet that is not backed by a file.
func (s *Service) ReviewCode(ctx context.Context, req core.ReviewRequest) (*core.Review, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, ErrEmptyCode
	}

	language := req.Language
	if language == "" {
		language = "text"
	}
	dimensions := req.Dimensions
	if len(dimensions) == 0 {
		dimensions = core.AllDimensions()
	}

	prompt, err := s.prompts.Render(llm.FileReviewPrompt, s.provider(), filePromptData{
		FilePath:   "(snippet)",
		Language:   language,
		Dimensions: dimensions,
		Code:       truncate(req.Code, s.cfg.MaxChars),
		Part:       1,
		Parts:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering code review prompt: %w", err)
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("reviewing code: %w", err)
	}

	review := s.buildReview("(snippet)", language, text)
	return &review, nil
}

type algorithmPromptData struct {
	Language string
	Code     string
	Task     string
}

// SuggestAlgorithms asks the model for more efficient alternatives to the
// algorithms in the given code.
func (s *Service) SuggestAlgorithms(ctx context.Context, code, language, task string) (*core.AlgorithmAnalysis, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyCode
	}

	prompt, err := s.prompts.Render(llm.AlgorithmPrompt, s.provider(), algorithmPromptData{
		Language: language,
		Code:     code,
		Task:     task,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering algorithm prompt: %w", err)
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("suggesting algorithms: %w", err)
	}

	return &core.AlgorithmAnalysis{
		Language: language,
		Task:     task,
		Review:   s.buildReview("algorithm analysis", language, text),
	}, nil
}

// buildReview wraps raw model text in a Review, attaching structured data
// when the response follows the requested markdown shape. Parsing is best
// effort; the raw text is always preserved verbatim.
func (s *Service) buildReview(target, language, text string) core.Review {
	review := core.Review{
		Target:    target,
		Language:  language,
		Model:     s.gen.Name(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if structured, err := llm.ParseReview(text); err == nil {
		review.Structured = structured
	}
	return review
}

// truncate cuts s to at most n bytes, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n... (truncated)"
}

// splitChunks splits code into pieces of at most size characters, preferring
// line boundaries so snippets stay readable in the prompt.
func splitChunks(code string, size int) []string {
	if size <= 0 || len(code) <= size {
		return []string{code}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(code, "\n") {
		if current.Len() > 0 && current.Len()+len(line) > size {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		// A single line longer than the chunk size is split mid-line.
		for len(line) > size {
			chunks = append(chunks, line[:size])
			line = line[size:]
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// filterDiff drops per-file sections of a unified diff whose paths the repo
// config excludes, and caps the number of file sections sent per commit.
func filterDiff(diff string, repoCfg *core.RepoConfig, maxFiles int) string {
	var kept []string
	for _, section := range splitDiffSections(diff) {
		if path := diffSectionPath(section); path != "" && repoCfg.Excludes(path) {
			continue
		}
		kept = append(kept, section)
		if maxFiles > 0 && len(kept) >= maxFiles {
			break
		}
	}
	return strings.Join(kept, "")
}

// splitDiffSections cuts a multi-file unified diff at each "diff --git"
// header. A leading fragment without a header is kept as its own section.
func splitDiffSections(diff string) []string {
	var sections []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "diff --git ") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// diffSectionPath extracts the post-image path from a "diff --git a/x b/x"
// header line.
func diffSectionPath(section string) string {
	header, _, _ := strings.Cut(section, "\n")
	if !strings.HasPrefix(header, "diff --git ") {
		return ""
	}
	fields := strings.Fields(header)
	if len(fields) < 4 {
		return ""
	}
	return strings.TrimPrefix(fields[3], "b/")
}
