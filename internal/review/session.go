package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/critiq-ai/critiq/internal/llm"
)

// ErrEmptyMessage is returned when a chat message contains no content.
var ErrEmptyMessage = errors.New("empty message")

// Turn is one exchange in a chat session.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleDeveloper = "Developer"
	RoleAssistant = "Assistant"
)

// Session is an interactive review conversation. History lives in memory for
// the lifetime of the session and is replayed into every prompt; nothing is
// persisted.
type Session struct {
	svc *Service

	mu      sync.Mutex
	history []Turn
}

func (s *Service) NewSession() *Session {
	return &Session{svc: s}
}

type chatPromptData struct {
	History []Turn
	Message string
}

// Send submits a message to the model together with the conversation so far
// and records both sides in the history. A failed call records nothing, so
// the message can be resent.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	history := make([]Turn, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	system, err := s.svc.prompts.Render(llm.SystemPrompt, s.svc.provider(), nil)
	if err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}
	prompt, err := s.svc.prompts.Render(llm.ChatPrompt, s.svc.provider(), chatPromptData{
		History: history,
		Message: message,
	})
	if err != nil {
		return "", fmt.Errorf("rendering chat prompt: %w", err)
	}
	prompt = system + "\n\n" + prompt

	reply, err := s.svc.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history,
		Turn{Role: RoleDeveloper, Content: message},
		Turn{Role: RoleAssistant, Content: reply},
	)
	s.mu.Unlock()

	return reply, nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Reset clears the conversation history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
