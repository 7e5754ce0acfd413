// Package core defines the value types shared across the application: review
// requests, git commit records, and the results relayed back from the model.
// All of them are transient; they live for a single invocation and are
// discarded afterwards.
package core

import "time"

// Review dimensions that can be requested in a prompt.
const (
	DimensionReadability     = "readability"
	DimensionPerformance     = "performance"
	DimensionSecurity        = "security"
	DimensionMaintainability = "maintainability"
	DimensionBestPractices   = "best-practices"
)

// AllDimensions lists every supported review dimension in display order.
func AllDimensions() []string {
	return []string{
		DimensionReadability,
		DimensionPerformance,
		DimensionSecurity,
		DimensionMaintainability,
		DimensionBestPractices,
	}
}

// ReviewRequest carries one piece of source text to the model together with
// the context needed to build a prompt for it.
type ReviewRequest struct {
	Code       string   `json:"code"`
	Language   string   `json:"language"`
	Task       string   `json:"task,omitempty"`
	Dimensions []string `json:"dimensions,omitempty"`
}

// CommitRecord is a read-only view of a single git commit, including the
// unified diff against its first parent.
type CommitRecord struct {
	Hash      string    `json:"hash"`
	ShortHash string    `json:"short_hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	When      time.Time `json:"when"`
	Diff      string    `json:"diff,omitempty"`
}

// Suggestion represents a single piece of feedback for a specific line of code.
type Suggestion struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
	Severity   string `json:"severity"` // e.g., "Low", "Medium", "High", "Critical"
	Category   string `json:"category"` // e.g., "Performance", "Security", "Readability"
	Comment    string `json:"comment"`
}

// StructuredReview holds the model's output in a parsable form. It is filled
// in on a best-effort basis: the model is asked for a structured format but
// nothing is enforced, and the raw text is always kept alongside.
type StructuredReview struct {
	Summary     string       `json:"summary"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Review is the result of one model call: the raw response text plus the
// optional structured form extracted from it.
type Review struct {
	Target     string            `json:"target"`
	Language   string            `json:"language,omitempty"`
	Model      string            `json:"model"`
	Text       string            `json:"text"`
	Structured *StructuredReview `json:"structured,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// RepoAnalysis aggregates per-commit reviews for a repository run.
type RepoAnalysis struct {
	RepoPath    string         `json:"repository"`
	CommitRange string         `json:"commit_range"`
	Commits     []CommitRecord `json:"commits"`
	Reviews     []Review       `json:"reviews"`
}

// FileAnalysis is the result of reviewing a single file.
type FileAnalysis struct {
	FilePath string `json:"file_path"`
	Language string `json:"language"`
	Size     int    `json:"size"`
	Lines    int    `json:"lines"`
	Review   Review `json:"review"`
}

// AlgorithmAnalysis is the result of an algorithm-optimization request for a
// pasted code snippet.
type AlgorithmAnalysis struct {
	Language string `json:"language"`
	Task     string `json:"task,omitempty"`
	Review   Review `json:"review"`
}
