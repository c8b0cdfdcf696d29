package tui

import (
	"errors"
	"strings"

	"github.com/lox/fillorbust/internal/game"
)

// ErrInputClosed is returned from prompts once the UI has quit; the
// engine goroutine unwinds through it.
var ErrInputClosed = errors.New("tui input closed")

// Bridge connects the engine goroutine to the Bubble Tea program. It
// implements game.Prompter for the human seat and game.EventSubscriber
// for the table log.
type Bridge struct {
	send      func(msg any)
	formatter *game.EventFormatter
	target    int
	players   []*game.Player // Live engine pointers, set at game start
	active    string
}

// NewBridge creates a bridge delivering messages through send,
// normally (*tea.Program).Send.
func NewBridge(send func(msg any), perspective string) *Bridge {
	return &Bridge{
		send:      send,
		formatter: game.NewEventFormatter(game.FormattingOptions{Perspective: perspective}),
	}
}

// Prompt implements game.Prompter. It blocks until the player answers
// or the UI quits.
func (b *Bridge) Prompt(question string) (string, error) {
	reply := make(chan string, 1)
	b.send(PromptMsg{Question: question, Reply: reply})
	answer, ok := <-reply
	if !ok {
		return "", ErrInputClosed
	}
	return answer, nil
}

// Say implements game.Prompter.
func (b *Bridge) Say(message string) {
	b.send(LogMsg{Line: message})
}

// Ack implements game.Prompter, blocking until the player types y.
func (b *Bridge) Ack(message string) {
	for {
		reply, err := b.Prompt(message)
		if err != nil {
			return
		}
		if strings.EqualFold(strings.TrimSpace(reply), "y") {
			return
		}
	}
}

// OnEvent implements game.EventSubscriber: events become log lines and
// scoreboard refreshes.
func (b *Bridge) OnEvent(event game.GameEvent) {
	line := b.formatter.Format(event)
	switch e := event.(type) {
	case game.TurnStartedEvent:
		if e.Card == game.CardMustBust || e.Card == game.CardNoDice || e.Card == game.CardDoubleTrouble {
			line = CardStyle.Render(line)
		}
		b.send(LogMsg{Line: line})
		b.active = e.Player.Name
		b.sendStandings()
	case game.DiceRolledEvent:
		b.send(LogMsg{Line: line})
		if !e.Score.IsBust() {
			b.send(LogMsg{Line: "  dice: " + e.Roll.Indexed()})
		}
	case game.TurnEndedEvent:
		switch e.Result.Outcome {
		case game.OutcomeBusted:
			line = BustStyle.Render(line)
		case game.OutcomeBanked:
			line = BankStyle.Render(line)
		}
		b.send(LogMsg{Line: line})
		b.sendStandings()
	case game.GameStartedEvent:
		b.target = e.Target
		b.players = e.Players
		b.send(LogMsg{Line: line})
		b.sendStandings()
	case game.GameEndedEvent:
		b.active = ""
		b.send(LogMsg{Line: line})
		b.sendStandings()
		b.send(GameOverMsg{})
	default:
		b.send(LogMsg{Line: line})
	}
}

// sendStandings rebuilds the scoreboard from the live player records.
func (b *Bridge) sendStandings() {
	if len(b.players) == 0 {
		return
	}
	standings := make([]Standing, len(b.players))
	for i, p := range b.players {
		standings[i] = Standing{Name: p.Name, Points: p.Points, Active: p.Name == b.active}
	}
	b.send(StandingsMsg{Target: b.target, Standings: standings})
}
