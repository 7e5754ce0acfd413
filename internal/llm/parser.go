package llm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/critiq-ai/critiq/internal/core"
)

var (
	// Matches: ## Suggestion [path/to/file.go:123] or ## Suggestion [path/to/file.go: 123]
	suggestionHeaderRegex = regexp.MustCompile(`(?i)##\s+Suggestion\s+\[(.*?):\s*(\d+)\]`)
	severityRegex         = regexp.MustCompile(`(?i)\*\*Severity:?\*\*\s*(.*)`)
	categoryRegex         = regexp.MustCompile(`(?i)\*\*Category:?\*\*\s*(.*)`)
)

// ParseReview extracts structured review data from the model's markdown
// output. It tolerates common quirks: a wrapping ```markdown fence,
// inconsistent heading casing, and missing sections. Only the summary or at
// least one suggestion is required.
func ParseReview(markdown string) (*core.StructuredReview, error) {
	markdown = stripMarkdownFence(markdown)

	review := &core.StructuredReview{}

	var inSummary bool
	var current *core.Suggestion
	var comment strings.Builder
	var summary strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Comment = strings.TrimSpace(comment.String())
		comment.Reset()
		review.Suggestions = append(review.Suggestions, *current)
		current = nil
	}

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, "# REVIEW SUMMARY"):
			flush()
			inSummary = true
			continue
		case strings.HasPrefix(upper, "# SUGGESTIONS"):
			flush()
			inSummary = false
			continue
		case strings.HasPrefix(upper, "## SUGGESTION"):
			flush()
			inSummary = false
			current = &core.Suggestion{FilePath: "unknown"}
			if m := suggestionHeaderRegex.FindStringSubmatch(line); len(m) == 3 {
				lineNum, _ := strconv.Atoi(m[2])
				current.FilePath = strings.TrimSpace(m[1])
				current.LineNumber = lineNum
			}
			continue
		}

		if inSummary {
			if line != "" && !strings.HasPrefix(line, "#") {
				if summary.Len() > 0 {
					summary.WriteString("\n")
				}
				summary.WriteString(line)
			}
			continue
		}

		if current == nil {
			continue
		}
		if m := severityRegex.FindStringSubmatch(line); len(m) > 1 {
			current.Severity = strings.TrimSpace(m[1])
			continue
		}
		if m := categoryRegex.FindStringSubmatch(line); len(m) > 1 {
			current.Category = strings.TrimSpace(m[1])
			continue
		}
		// Preserve indentation of suggestion body lines, e.g. code snippets.
		if line != "" || comment.Len() > 0 {
			comment.WriteString(raw + "\n")
		}
	}

	flush()
	review.Summary = summary.String()

	if review.Summary == "" && len(review.Suggestions) == 0 {
		return nil, fmt.Errorf("failed to parse review: no recognized sections found")
	}
	return review, nil
}

// stripMarkdownFence removes ```markdown ... ``` wrapping that some models
// add around their entire response.
func stripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```markdown") && !strings.HasPrefix(trimmed, "```md") {
		return s
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return s
	}
	inner := trimmed[idx+1:]
	if last := strings.LastIndex(inner, "```"); last >= 0 {
		inner = inner[:last]
	}
	return strings.TrimSpace(inner)
}
