package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/fillorbust/dice"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameStarted EventType = "game_started"
	EventTypeTurnStarted EventType = "turn_started"
	EventTypeDiceRolled  EventType = "dice_rolled"
	EventTypeDiceKept    EventType = "dice_kept"
	EventTypeFilled      EventType = "filled"
	EventTypeTurnEnded   EventType = "turn_ended"
	EventTypeGameEnded   EventType = "game_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartedEvent is published when a game begins
type GameStartedEvent struct {
	GameID    string
	Players   []*Player
	Target    int
	Variant   dice.Variant
	timestamp time.Time
}

func (e GameStartedEvent) EventType() EventType { return EventTypeGameStarted }
func (e GameStartedEvent) Timestamp() time.Time { return e.timestamp }

// NewGameStartedEvent creates a new game started event
func NewGameStartedEvent(gameID string, players []*Player, target int, variant dice.Variant) GameStartedEvent {
	return GameStartedEvent{
		GameID:    gameID,
		Players:   players,
		Target:    target,
		Variant:   variant,
		timestamp: time.Now(),
	}
}

// TurnStartedEvent is published when a player's turn begins, after the
// special card is drawn
type TurnStartedEvent struct {
	Player    *Player
	Card      Card
	Target    int
	timestamp time.Time
}

func (e TurnStartedEvent) EventType() EventType { return EventTypeTurnStarted }
func (e TurnStartedEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnStartedEvent creates a new turn started event
func NewTurnStartedEvent(player *Player, card Card, target int) TurnStartedEvent {
	return TurnStartedEvent{
		Player:    player,
		Card:      card,
		Target:    target,
		timestamp: time.Now(),
	}
}

// DiceRolledEvent is published after every throw
type DiceRolledEvent struct {
	Player    *Player
	Roll      dice.Roll
	Score     dice.Score
	DiceLeft  int
	timestamp time.Time
}

func (e DiceRolledEvent) EventType() EventType { return EventTypeDiceRolled }
func (e DiceRolledEvent) Timestamp() time.Time { return e.timestamp }

// NewDiceRolledEvent creates a new dice rolled event
func NewDiceRolledEvent(player *Player, roll dice.Roll, score dice.Score, diceLeft int) DiceRolledEvent {
	rolled := make(dice.Roll, len(roll))
	copy(rolled, roll)
	return DiceRolledEvent{
		Player:    player,
		Roll:      rolled,
		Score:     score,
		DiceLeft:  diceLeft,
		timestamp: time.Now(),
	}
}

// DiceKeptEvent is published when a player sets dice aside
type DiceKeptEvent struct {
	Player     *Player
	Kept       dice.Score
	TurnPoints int
	DiceLeft   int
	timestamp  time.Time
}

func (e DiceKeptEvent) EventType() EventType { return EventTypeDiceKept }
func (e DiceKeptEvent) Timestamp() time.Time { return e.timestamp }

// NewDiceKeptEvent creates a new dice kept event
func NewDiceKeptEvent(player *Player, kept dice.Score, turnPoints, diceLeft int) DiceKeptEvent {
	return DiceKeptEvent{
		Player:     player,
		Kept:       kept,
		TurnPoints: turnPoints,
		DiceLeft:   diceLeft,
		timestamp:  time.Now(),
	}
}

// FilledEvent is published when a player uses all six dice in a turn
type FilledEvent struct {
	Player     *Player
	Fills      int
	Bonus      int // The bonus credited with this fill, 0 if none
	TurnPoints int
	timestamp  time.Time
}

func (e FilledEvent) EventType() EventType { return EventTypeFilled }
func (e FilledEvent) Timestamp() time.Time { return e.timestamp }

// NewFilledEvent creates a new filled event
func NewFilledEvent(player *Player, fills, bonus, turnPoints int) FilledEvent {
	return FilledEvent{
		Player:     player,
		Fills:      fills,
		Bonus:      bonus,
		TurnPoints: turnPoints,
		timestamp:  time.Now(),
	}
}

// TurnEndedEvent is published when a turn settles
type TurnEndedEvent struct {
	Player    *Player
	Result    TurnResult
	NewTotal  int
	timestamp time.Time
}

func (e TurnEndedEvent) EventType() EventType { return EventTypeTurnEnded }
func (e TurnEndedEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnEndedEvent creates a new turn ended event
func NewTurnEndedEvent(player *Player, result TurnResult, newTotal int) TurnEndedEvent {
	return TurnEndedEvent{
		Player:    player,
		Result:    result,
		NewTotal:  newTotal,
		timestamp: time.Now(),
	}
}

// GameEndedEvent is published when a player reaches the target
type GameEndedEvent struct {
	GameID    string
	Winner    *Player
	WinnerIdx int
	Players   []*Player
	Turns     int // Completed turns across all players
	timestamp time.Time
}

func (e GameEndedEvent) EventType() EventType { return EventTypeGameEnded }
func (e GameEndedEvent) Timestamp() time.Time { return e.timestamp }

// NewGameEndedEvent creates a new game ended event
func NewGameEndedEvent(gameID string, winner *Player, winnerIdx int, players []*Player, turns int) GameEndedEvent {
	return GameEndedEvent{
		GameID:    gameID,
		Winner:    winner,
		WinnerIdx: winnerIdx,
		Players:   players,
		Turns:     turns,
		timestamp: time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowReasonings bool   // Include agent reasoning (for debugging)
	Perspective    string // Player name addressed as "You"
}

// EventFormatter renders game events as table-talk lines for the
// console and TUI logs
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any game event; unknown events format as their type name.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case GameStartedEvent:
		return ef.FormatGameStarted(e)
	case TurnStartedEvent:
		return ef.FormatTurnStarted(e)
	case DiceRolledEvent:
		return ef.FormatDiceRolled(e)
	case DiceKeptEvent:
		return ef.FormatDiceKept(e)
	case FilledEvent:
		return ef.FormatFilled(e)
	case TurnEndedEvent:
		return ef.FormatTurnEnded(e)
	case GameEndedEvent:
		return ef.FormatGameEnded(e)
	default:
		return event.EventType().String()
	}
}

// FormatGameStarted formats a game started event
func (ef *EventFormatter) FormatGameStarted(event GameStartedEvent) string {
	names := make([]string, len(event.Players))
	for i, p := range event.Players {
		names[i] = p.Name
	}
	return fmt.Sprintf("Fill or Bust: %s playing to %d (%s scoring)",
		strings.Join(names, ", "), event.Target, event.Variant)
}

// FormatTurnStarted formats a turn started event
func (ef *EventFormatter) FormatTurnStarted(event TurnStartedEvent) string {
	if name := ef.name(event.Player); name == "You" {
		return fmt.Sprintf("Your turn (score %d/%d). Drew card: %s",
			event.Player.Points, event.Target, event.Card)
	}
	return fmt.Sprintf("%s's turn (score %d/%d). Drew card: %s",
		ef.name(event.Player), event.Player.Points, event.Target, event.Card)
}

// FormatDiceRolled formats a dice rolled event
func (ef *EventFormatter) FormatDiceRolled(event DiceRolledEvent) string {
	if event.Score.IsBust() {
		return fmt.Sprintf("%s rolled %s: no scoring dice", ef.name(event.Player), event.Roll)
	}
	return fmt.Sprintf("%s rolled %s: scoring %d (%s)",
		ef.name(event.Player), event.Roll, event.Score.Points, event.Score.Breakdown())
}

// FormatDiceKept formats a dice kept event
func (ef *EventFormatter) FormatDiceKept(event DiceKeptEvent) string {
	return fmt.Sprintf("%s keeps %d points (%s); turn total %d, dice left %d",
		ef.name(event.Player), event.Kept.Points, event.Kept.Breakdown(),
		event.TurnPoints, event.DiceLeft)
}

// FormatFilled formats a filled event
func (ef *EventFormatter) FormatFilled(event FilledEvent) string {
	if event.Bonus > 0 {
		return fmt.Sprintf("%s filled! Bonus %d added; turn total %d",
			ef.name(event.Player), event.Bonus, event.TurnPoints)
	}
	return fmt.Sprintf("%s filled! Six fresh dice; turn total %d",
		ef.name(event.Player), event.TurnPoints)
}

// FormatTurnEnded formats a turn ended event
func (ef *EventFormatter) FormatTurnEnded(event TurnEndedEvent) string {
	name := ef.name(event.Player)
	switch event.Result.Outcome {
	case OutcomeBanked:
		return fmt.Sprintf("%s banks %d points and now has %d", name, event.Result.Points, event.NewTotal)
	case OutcomeBusted:
		if event.Result.Points > 0 {
			return fmt.Sprintf("%s busted but MUST BUST keeps %d points; now has %d",
				name, event.Result.Points, event.NewTotal)
		}
		return fmt.Sprintf("%s busted and scored 0 this turn", name)
	case OutcomeSkipped:
		return fmt.Sprintf("%s loses the turn to NO DICE", name)
	default:
		return fmt.Sprintf("%s ends the turn", name)
	}
}

// FormatGameEnded formats a game ended event
func (ef *EventFormatter) FormatGameEnded(event GameEndedEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s wins with %d points!", ef.name(event.Winner), event.Winner.Points)
	for _, p := range event.Players {
		fmt.Fprintf(&sb, "\n  %s: %d", p.Name, p.Points)
	}
	return sb.String()
}

// name renders a player name from the configured perspective.
func (ef *EventFormatter) name(player *Player) string {
	if ef.opts.Perspective != "" && player.Name == ef.opts.Perspective {
		return "You"
	}
	return player.Name
}
