package game

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/fillorbust/dice"
)

// DefaultTargetPoints is the total a player must reach to win.
const DefaultTargetPoints = 2000

// PlayerSpec describes one seat when building an engine. Agent may be
// nil for AI seats, in which case the engine builds the stock AI with
// the given threshold.
type PlayerSpec struct {
	Name      string
	Kind      PlayerKind
	Threshold int   // Bank threshold for the stock AI; ignored with an explicit Agent
	Agent     Agent // Required for human seats
}

// Config is the engine-level game configuration, distinct from the HCL
// file config the binaries read.
type Config struct {
	Players      []PlayerSpec
	TargetPoints int
	Variant      dice.Variant
}

// Validate rejects configurations no game can be played from.
func (c *Config) Validate() error {
	if len(c.Players) < 1 {
		return errors.New("at least one player required")
	}
	if c.TargetPoints < 0 {
		return fmt.Errorf("points to win must be positive, got %d", c.TargetPoints)
	}
	for i, spec := range c.Players {
		if spec.Kind == Human && spec.Agent == nil {
			return fmt.Errorf("player %d (%s) is human but has no agent", i+1, spec.Name)
		}
	}
	return nil
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithRNG sets the random source for dice and the card deck. Required
// for reproducible games; defaults to a time-seeded source.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithEventBus sets the bus game events are published to.
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) { e.eventBus = bus }
}

// WithLogger sets the engine logger. Defaults to a discard logger so
// simulations stay quiet.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithAIDelay makes the engine pause between AI decisions so humans at
// the table can follow the log. The delay runs on the given clock;
// tests pass quartz.NewMock.
func WithAIDelay(delay time.Duration, clock quartz.Clock) Option {
	return func(e *Engine) {
		e.aiDelay = delay
		e.clock = clock
	}
}

// WithRoller overrides the dice roller built from the RNG. Tests use
// it to script exact rolls.
func WithRoller(roller DiceRoller) Option {
	return func(e *Engine) { e.roller = roller }
}

// WithDeck overrides the card deck built from the RNG. Tests use it to
// script the drawn cards.
func WithDeck(deck CardDrawer) Option {
	return func(e *Engine) { e.deck = deck }
}

// Engine runs one game of Fill or Bust: it cycles seats, drives each
// turn to a terminal phase and stops as soon as a player's total
// reaches the target at a turn boundary.
type Engine struct {
	gameID  string
	players []*Player
	target  int
	variant dice.Variant

	rng      *rand.Rand
	roller   DiceRoller
	deck     CardDrawer
	eventBus EventBus
	logger   *log.Logger
	clock    quartz.Clock
	aiDelay  time.Duration

	turns int // Completed turns across all players
}

// NewEngine builds the players, card deck and roller for one game.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	target := cfg.TargetPoints
	if target == 0 {
		target = DefaultTargetPoints
	}

	e := &Engine{
		gameID:  uuid.NewString(),
		target:  target,
		variant: cfg.Variant,
		logger:  log.New(io.Discard),
		clock:   quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.eventBus == nil {
		e.eventBus = NewEventBus()
	}
	e.logger = e.logger.With("gameID", e.gameID)
	if e.roller == nil {
		e.roller = dice.NewRoller(e.rng)
	}
	if e.deck == nil {
		e.deck = NewDeck(e.rng)
	}

	e.players = make([]*Player, len(cfg.Players))
	for i, spec := range cfg.Players {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("P%d", i+1)
		}
		agent := spec.Agent
		if agent == nil {
			agent = NewAIAgent(spec.Threshold)
		}
		e.players[i] = &Player{
			Seat:  i,
			Name:  name,
			Kind:  spec.Kind,
			Agent: agent,
		}
	}
	return e, nil
}

// GameID returns the identifier attached to this game's events and logs.
func (e *Engine) GameID() string { return e.gameID }

// Players returns the seats in play order.
func (e *Engine) Players() []*Player { return e.players }

// EventBus returns the bus renderers subscribe to.
func (e *Engine) EventBus() EventBus { return e.eventBus }

// Turns returns the number of completed turns across all players.
func (e *Engine) Turns() int { return e.turns }

// Run plays the game to completion and returns the winning seat index.
// The win check happens only at turn boundaries: a player may overshoot
// the target mid-turn but the turn always settles first.
func (e *Engine) Run() (int, error) {
	e.logger.Info("game started",
		"players", len(e.players), "target", e.target, "variant", e.variant)
	e.eventBus.Publish(NewGameStartedEvent(e.gameID, e.players, e.target, e.variant))

	for {
		for idx, player := range e.players {
			result, err := e.playTurn(player)
			if err != nil {
				return -1, fmt.Errorf("turn for %s: %w", player.Name, err)
			}
			player.Points += result.Points
			e.turns++
			e.eventBus.Publish(NewTurnEndedEvent(player, result, player.Points))
			e.logger.Debug("turn ended",
				"player", player.Name, "outcome", result.Outcome,
				"points", result.Points, "total", player.Points)

			if player.Points >= e.target {
				e.logger.Info("game ended",
					"winner", player.Name, "total", player.Points, "turns", e.turns)
				e.eventBus.Publish(NewGameEndedEvent(e.gameID, player, idx, e.players, e.turns))
				return idx, nil
			}
		}
	}
}

// PlayGame is Run under the name the simulation driver uses.
func (e *Engine) PlayGame() (int, error) {
	return e.Run()
}

// playTurn drives one turn to a terminal phase and settles it.
func (e *Engine) playTurn(player *Player) (TurnResult, error) {
	card := e.deck.Draw()
	turn := NewTurn(player, card, e.variant, e.roller)
	e.eventBus.Publish(NewTurnStartedEvent(player, card, e.target))
	e.logger.Debug("turn started", "player", player.Name, "card", card)

	if turn.Phase() == PhaseSkipped {
		e.acknowledge(player, turn, fmt.Sprintf("%s: you lose this turn", card))
		return turn.Result()
	}

	lastErr := ""
	for !turn.Phase().Terminal() {
		switch turn.Phase() {
		case PhaseRolling:
			// The first roll of a turn is automatic; once the turn
			// has points the player chooses roll or bank.
			if turn.Points() > 0 {
				decision, err := e.decide(player, turn, lastErr)
				if err != nil {
					return TurnResult{}, err
				}
				lastErr = ""
				if decision.Action == ActionBank {
					if err := turn.Bank(); err != nil {
						if lastErr, err = e.reject(player, err); err != nil {
							return TurnResult{}, err
						}
					}
					continue
				}
				if decision.Action != ActionRoll {
					if lastErr, err = e.reject(player, fmt.Errorf("cannot %s now", decision.Action)); err != nil {
						return TurnResult{}, err
					}
					continue
				}
			}
			roll, score, err := turn.RollDice()
			if err != nil {
				return TurnResult{}, err
			}
			e.eventBus.Publish(NewDiceRolledEvent(player, roll, score, turn.DiceLeft()))
			e.logger.Debug("rolled", "player", player.Name, "roll", roll, "points", score.Points)
			if score.IsBust() {
				note := "Busted! No scoring dice"
				if card == CardMustBust && turn.Points() > 0 {
					note = fmt.Sprintf("Busted, but %s banks your %d points", card, turn.Points())
				}
				e.acknowledge(player, turn, note)
			}

		case PhaseDeciding:
			decision, err := e.decide(player, turn, lastErr)
			if err != nil {
				return TurnResult{}, err
			}
			lastErr = ""
			switch decision.Action {
			case ActionBank:
				if err := turn.Bank(); err != nil {
					if lastErr, err = e.reject(player, err); err != nil {
						return TurnResult{}, err
					}
				}
			case ActionKeep:
				var (
					kept   dice.Score
					filled bool
				)
				if decision.KeepAll {
					kept, filled, err = turn.KeepAll()
				} else {
					kept, filled, err = turn.Keep(decision.Picks)
				}
				if err != nil {
					if lastErr, err = e.reject(player, err); err != nil {
						return TurnResult{}, err
					}
					continue
				}
				e.eventBus.Publish(NewDiceKeptEvent(player, kept, turn.Points(), turn.DiceLeft()))
				if filled {
					bonus := 0
					if turn.Fills() == 1 {
						bonus = card.Bonus()
					}
					e.eventBus.Publish(NewFilledEvent(player, turn.Fills(), bonus, turn.Points()))
					e.logger.Debug("filled", "player", player.Name, "fills", turn.Fills(), "bonus", bonus)
				}
			default:
				if lastErr, err = e.reject(player, fmt.Errorf("cannot %s now", decision.Action)); err != nil {
					return TurnResult{}, err
				}
			}
		}
	}
	return turn.Result()
}

// decide asks the seat's agent for a decision, pacing AI seats so a
// watching human can follow along.
func (e *Engine) decide(player *Player, turn *Turn, lastErr string) (Decision, error) {
	view := e.view(player, turn, lastErr)
	decision, err := player.Agent.Act(view)
	if err != nil {
		return Decision{}, fmt.Errorf("agent for %s: %w", player.Name, err)
	}
	if player.IsAI() && e.aiDelay > 0 {
		timer := e.clock.NewTimer(e.aiDelay)
		<-timer.C
	}
	if decision.Reasoning != "" {
		e.logger.Debug("decision",
			"player", player.Name, "action", decision.Action, "reasoning", decision.Reasoning)
	}
	return decision, nil
}

// reject handles an illegal decision: humans get the reason back in the
// next view and are asked again, AI agents have violated their contract
// and abort the game.
func (e *Engine) reject(player *Player, cause error) (string, error) {
	if player.IsAI() {
		return "", fmt.Errorf("ai agent for %s made an illegal decision: %w", player.Name, cause)
	}
	e.logger.Debug("decision rejected", "player", player.Name, "reason", cause)
	return cause.Error(), nil
}

// view snapshots the turn for an agent.
func (e *Engine) view(player *Player, turn *Turn, lastErr string) TurnView {
	view := TurnView{
		Phase:       turn.Phase(),
		PlayerName:  player.Name,
		PlayerTotal: player.Points,
		Target:      e.target,
		Card:        turn.Card(),
		TurnPoints:  turn.Points(),
		DiceLeft:    turn.DiceLeft(),
		Fills:       turn.Fills(),
		BankAllowed: turn.CanBank(),
		FillsNeeded: turn.FillsNeeded(),
		LastError:   lastErr,
	}
	switch turn.Phase() {
	case PhaseDeciding:
		view.Roll = turn.LastRoll()
		view.Score = turn.LastScore()
		view.ValidActions = []Action{ActionKeep}
	case PhaseRolling:
		view.ValidActions = []Action{ActionRoll}
	}
	if view.BankAllowed {
		view.ValidActions = append(view.ValidActions, ActionBank)
	}
	return view
}

// acknowledge blocks on agents that want turn notices (the console
// human's y-gate); everyone else moves straight on.
func (e *Engine) acknowledge(player *Player, turn *Turn, note string) {
	if acker, ok := player.Agent.(Acknowledger); ok {
		acker.Acknowledge(e.view(player, turn, ""), note)
	}
}
