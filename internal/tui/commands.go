package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/critiq-ai/critiq/internal/review"
)

func sendMessageCmd(session *review.Session, message string) tea.Cmd {
	return func() tea.Msg {
		reply, err := session.Send(context.Background(), message)
		if err != nil {
			return errorMsg{err}
		}
		return answerMsg{content: reply}
	}
}

func reviewFileCmd(svc *review.Service, path string) tea.Cmd {
	return func() tea.Msg {
		analysis, err := svc.AnalyzeFile(context.Background(), path, "")
		if err != nil {
			return errorMsg{err}
		}
		return reviewDoneMsg{analysis: analysis}
	}
}
