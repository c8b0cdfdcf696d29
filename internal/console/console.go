// Package console renders games and prompts humans in plain line mode.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/fillorbust/internal/game"
)

// Styles for table-talk lines.
var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	bustStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	bankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Background(lipgloss.Color("#1A1A1A")).
			Padding(0, 1).
			Bold(true)
)

// Renderer prints game events as they are published. It subscribes to
// the engine's event bus and writes plain lines, styled when the
// terminal supports color.
type Renderer struct {
	out       io.Writer
	formatter *game.EventFormatter
	color     bool
}

// NewRenderer creates a renderer writing to out. Styling is applied
// only when the terminal reports a color profile.
func NewRenderer(out io.Writer, perspective string) *Renderer {
	return &Renderer{
		out:       out,
		formatter: game.NewEventFormatter(game.FormattingOptions{Perspective: perspective}),
		color:     termenv.ColorProfile() != termenv.Ascii,
	}
}

// OnEvent implements game.EventSubscriber.
func (r *Renderer) OnEvent(event game.GameEvent) {
	line := r.formatter.Format(event)
	switch e := event.(type) {
	case game.GameStartedEvent:
		line = r.style(bannerStyle, line)
	case game.TurnStartedEvent:
		line = "\n" + line
		if e.Card == game.CardMustBust || e.Card == game.CardNoDice || e.Card == game.CardDoubleTrouble {
			line = r.style(cardStyle, line)
		}
	case game.TurnEndedEvent:
		switch e.Result.Outcome {
		case game.OutcomeBusted:
			line = r.style(bustStyle, line)
		case game.OutcomeBanked:
			line = r.style(bankStyle, line)
		}
	case game.GameEndedEvent:
		line = "\n" + r.style(winStyle, line)
	}
	fmt.Fprintln(r.out, line)

	// A scoring roll is followed by the indexed view so a human can
	// pick dice by position.
	if e, ok := event.(game.DiceRolledEvent); ok && !e.Score.IsBust() {
		fmt.Fprintf(r.out, "  dice: %s\n", e.Roll.Indexed())
	}
}

func (r *Renderer) style(s lipgloss.Style, line string) string {
	if !r.color {
		return line
	}
	return s.Render(line)
}

// StdinPrompter implements game.Prompter on buffered reader/writer
// pairs, normally stdin and stdout.
type StdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdinPrompter creates a prompter reading replies from in.
func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{in: bufio.NewReader(in), out: out}
}

// Prompt implements game.Prompter.
func (p *StdinPrompter) Prompt(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Say implements game.Prompter.
func (p *StdinPrompter) Say(message string) {
	fmt.Fprintln(p.out, message)
}

// Ack implements game.Prompter by blocking until the player answers y.
func (p *StdinPrompter) Ack(message string) {
	for {
		reply, err := p.Prompt(message)
		if err != nil {
			return // Input is gone; nothing left to wait for
		}
		if strings.EqualFold(strings.TrimSpace(reply), "y") {
			return
		}
	}
}
