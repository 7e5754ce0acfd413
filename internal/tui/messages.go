package tui

import "github.com/critiq-ai/critiq/internal/core"

// A complete chat reply from the model.
type answerMsg struct{ content string }

// A finished single-file review triggered by /review.
type reviewDoneMsg struct{ analysis *core.FileAnalysis }

// A generic error message for reporting failures from commands.
type errorMsg struct{ err error }

func (e errorMsg) Error() string {
	return e.err.Error()
}
