// Package tui is the full-screen bubbletea table for interactive play.
// The engine runs on its own goroutine and talks to the model through
// the Bridge: log lines and prompt requests in, typed replies out.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// LogMsg appends a line to the game log.
type LogMsg struct {
	Line string
}

// PromptMsg asks the player a question. The model delivers the typed
// reply on Reply; closing Reply tells the asker the UI is gone.
type PromptMsg struct {
	Question string
	Reply    chan string
}

// Standing is one row of the sidebar scoreboard.
type Standing struct {
	Name   string
	Points int
	Active bool
}

// StandingsMsg refreshes the sidebar scoreboard.
type StandingsMsg struct {
	Target    int
	Standings []Standing
}

// GameOverMsg tells the model the engine finished.
type GameOverMsg struct{}

const helpText = `Commands:
  k          keep all scoring dice
  c 1 3 5    keep the dice at those positions
  b          bank the turn total
  r          roll the remaining dice
  y          acknowledge a bust or lost turn
  help       show this help
  quit       leave the game`

// Model is the Bubble Tea model for a Fill or Bust table.
type Model struct {
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	// State
	gameLog   []string
	pending   *PromptMsg
	target    int
	standings []Standing
	gameOver  bool
	quitting  bool

	// Dimensions
	width  int
	height int

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewModel creates the table model. In test mode log lines are also
// captured for assertions and no terminal is assumed.
func NewModel(logger *log.Logger, testMode bool) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "k, c 1 3 5, b, r, help, quit"
	ti.Focus()
	ti.CharLimit = 60
	ti.Width = 60
	ti.PromptStyle = PromptStyle
	ti.Prompt = "> "

	return &Model{
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		testMode:    testMode,
	}
}

// IsTestMode reports whether the model captures log lines.
func (m *Model) IsTestMode() bool { return m.testMode }

// CapturedLog returns the captured lines, nil outside test mode.
func (m *Model) CapturedLog() []string {
	if !m.testMode {
		return nil
	}
	return m.capturedLog
}

// Pending returns the unanswered prompt, if any. Used by tests.
func (m *Model) Pending() *PromptMsg { return m.pending }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LogMsg:
		m.appendLog(msg.Line)
		return m, nil

	case PromptMsg:
		m.pending = &msg
		return m, nil

	case StandingsMsg:
		m.target = msg.Target
		m.standings = msg.Standings
		return m, nil

	case GameOverMsg:
		m.gameOver = true
		m.appendLog(InfoStyle.Render("Game over. Type quit (or q) to leave."))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "enter":
			return m, m.submit()
		case "pgup":
			m.logViewport.HalfPageUp()
			return m, nil
		case "pgdown":
			m.logViewport.HalfPageDown()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles the enter key: local commands first, everything else
// answers the pending prompt.
func (m *Model) submit() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	switch strings.ToLower(value) {
	case "help":
		m.appendLog(InfoStyle.Render(helpText))
		return nil
	case "quit", "q":
		if m.gameOver || m.pending == nil {
			return m.quit()
		}
		m.appendLog(ErrorStyle.Render("A game is live; type quit again to abandon it."))
		m.gameOver = true // Next quit goes through
		return nil
	}

	if m.pending == nil {
		if value != "" {
			m.appendLog(InfoStyle.Render("Nothing is being asked right now."))
		}
		return nil
	}

	m.pending.Reply <- value
	m.pending = nil
	return nil
}

// quit abandons any pending prompt so the engine goroutine unblocks
// with an error instead of hanging forever.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.pending != nil {
		close(m.pending.Reply)
		m.pending = nil
	}
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	if m.testMode {
		m.capturedLog = append(m.capturedLog, line)
	}
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

func (m *Model) resize() {
	logWidth := m.width - sidebarWidth - 4
	logHeight := m.height - 5
	if logWidth < 1 {
		logWidth = 1
	}
	if logHeight < 1 {
		logHeight = 1
	}
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
}

const sidebarWidth = 24

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := HeaderStyle.Render(" Fill or Bust ")

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height).
		Render(m.logViewport.View())

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(m.logViewport.Height).
		Render(m.renderStandings())

	body := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)

	promptLine := ""
	if m.pending != nil {
		promptLine = PromptStyle.Render(m.pending.Question)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, promptLine, m.input.View())
}

func (m *Model) renderStandings() string {
	if len(m.standings) == 0 {
		return InfoStyle.Render("no game yet")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "First to %d\n\n", m.target)
	for _, s := range m.standings {
		marker := "  "
		if s.Active {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-12s %6d", marker, s.Name, s.Points)
		if s.Active {
			line = StandingsStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
