// Package tui implements the interactive review session in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/critiq-ai/critiq/internal/app"
	"github.com/critiq-ai/critiq/internal/review"
)

const asciiLogo = `
 ██████╗██████╗ ██╗████████╗██╗ ██████╗
██╔════╝██╔══██╗██║╚══██╔══╝██║██╔═══██╗
██║     ██████╔╝██║   ██║   ██║██║   ██║
██║     ██╔══██╗██║   ██║   ██║██║▄▄ ██║
╚██████╗██║  ██║██║   ██║   ██║╚██████╔╝
 ╚═════╝╚═╝  ╚═╝╚═╝   ╚═╝   ╚═╝ ╚══▀▀═╝
            AI-assisted code review
`

type model struct {
	styles styles
	app    *app.App

	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	isLoading bool

	session *review.Session
	history []string
	width   int
}

func initialModel(a *app.App, theme ThemeName) *model {
	styles := GetTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Ask about code, or /review <file>..."
	ta.Focus()
	ta.Prompt = styles.prompt.Render("► ")
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	return &model{
		styles:   styles,
		app:      a,
		textarea: ta,
		spinner:  sp,
		session:  a.Reviewer.NewSession(),
		history: []string{
			styles.ascii.Render(asciiLogo),
			"",
			fmt.Sprintf("Connected to %s (%s). Type /help for commands.", a.Cfg.ModelName, a.Cfg.LLMProvider),
		},
		width: 80,
	}
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" || m.isLoading {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.processInput(input)
		}

	case answerMsg:
		m.isLoading = false
		m.append("", m.renderMarkdown(msg.content))
		return m, nil

	case reviewDoneMsg:
		m.isLoading = false
		header := m.styles.success.Render(fmt.Sprintf("✓ reviewed %s (%s, %d lines)",
			msg.analysis.FilePath, msg.analysis.Language, msg.analysis.Lines))
		m.append("", header, m.renderMarkdown(msg.analysis.Review.Text))
		return m, nil

	case errorMsg:
		m.isLoading = false
		m.append("", m.styles.error.Render("⚠ "+msg.err.Error()))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *model) View() string {
	var loadingIndicator string
	if m.isLoading {
		loadingIndicator = " " + m.spinner.View() + " " + m.styles.success.Render("THINKING...")
	}

	status := m.styles.inactive.Render(fmt.Sprintf("🤖 %s (%s) │ esc to quit",
		m.app.Cfg.ModelName, m.app.Cfg.LLMProvider))

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left,
					m.textarea.View(),
					loadingIndicator,
				),
			),
			status,
		),
	)
}

// append adds lines to the transcript and scrolls to the bottom.
func (m *model) append(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

// renderMarkdown pretty-prints a model reply; on failure the raw text is
// shown instead.
func (m *model) renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(m.width-6, 100)),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

func (m *model) processInput(input string) tea.Cmd {
	m.append(m.styles.prompt.Render("► ") + input)

	if !strings.HasPrefix(input, "/") {
		m.isLoading = true
		m.append("", m.styles.command.Render("→ asking "+m.app.Cfg.ModelName+"..."))
		return tea.Batch(m.spinner.Tick, sendMessageCmd(m.session, input))
	}

	parts := strings.Fields(input)
	command := parts[0]
	args := parts[1:]

	switch command {
	case "/review":
		if len(args) != 1 {
			m.append(m.styles.error.Render("USAGE: /review [path_to_file]"))
			return nil
		}
		m.isLoading = true
		m.append("", m.styles.command.Render("→ reviewing "+args[0]+"..."))
		return tea.Batch(m.spinner.Tick, reviewFileCmd(m.app.Reviewer, args[0]))

	case "/clear":
		m.session.Reset()
		m.history = []string{m.styles.success.Render("✓ conversation cleared")}
		m.viewport.SetContent(strings.Join(m.history, "\n"))
		return nil

	case "/help", "/h":
		helpText := m.styles.success.Render("AVAILABLE COMMANDS:") + `

  /review [path]   Review a single source file.
  /clear           Forget the conversation so far.
  /help            Show this help message.
  /exit, /quit     Leave the session.

  ` + m.styles.inactive.Render("Anything else is sent to the model as a chat message.")
		m.append("", helpText)
		return nil

	case "/exit", "/quit", "/q":
		return tea.Quit

	default:
		m.append("",
			m.styles.error.Render(fmt.Sprintf("UNKNOWN COMMAND: %s", command)),
			m.styles.inactive.Render("Type /help for assistance."))
		return nil
	}
}

// Run starts the interactive session and blocks until the user leaves.
func Run(a *app.App, theme ThemeName) error {
	p := tea.NewProgram(initialModel(a, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
