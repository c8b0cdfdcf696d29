package game

import (
	"errors"
	"fmt"

	"github.com/lox/fillorbust/dice"
)

// TurnPhase represents where a turn is in its lifecycle.
type TurnPhase uint8

const (
	// PhaseRolling: the player is about to roll, or may bank instead
	// once the turn has points.
	PhaseRolling TurnPhase = iota
	// PhaseDeciding: a scoring roll is on the table and the player must
	// keep dice or bank.
	PhaseDeciding
	PhaseBanked
	PhaseBusted
	PhaseSkipped
)

// String returns the phase name used in logs and prompts.
func (p TurnPhase) String() string {
	switch p {
	case PhaseRolling:
		return "rolling"
	case PhaseDeciding:
		return "deciding"
	case PhaseBanked:
		return "banked"
	case PhaseBusted:
		return "busted"
	case PhaseSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends the turn.
func (p TurnPhase) Terminal() bool {
	return p == PhaseBanked || p == PhaseBusted || p == PhaseSkipped
}

// Outcome classifies how a turn ended.
type Outcome uint8

const (
	OutcomeBanked Outcome = iota
	OutcomeBusted
	OutcomeSkipped
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeBanked:
		return "banked"
	case OutcomeBusted:
		return "busted"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// TurnResult is the settled outcome of a completed turn. Points is what
// the player's total grows by: the banked total, a must-bust partial, or
// zero.
type TurnResult struct {
	Outcome Outcome
	Points  int
	Fills   int
	Card    Card
}

// Turn state errors. The engine re-prompts humans on these and treats
// them as contract violations from AI agents.
var (
	ErrTurnOver       = errors.New("turn is already over")
	ErrNotDeciding    = errors.New("no roll on the table to keep from")
	ErrNotRolling     = errors.New("a roll is waiting for a decision")
	ErrNothingToBank  = errors.New("no points to bank yet")
	ErrMustBust       = errors.New("MUST BUST forbids banking this turn")
	ErrNeedSecondFill = errors.New("DOUBLE TROUBLE requires two fills before banking")
)

// DiceRoller produces rolls of n dice. Satisfied by *dice.Roller;
// tests substitute scripted rolls.
type DiceRoller interface {
	Roll(n int) dice.Roll
}

// Turn drives a single player's turn: rolling, keeping scoring dice and
// banking or busting. The zero number of dice is never rolled; a fill
// resets the count to six within the same turn.
type Turn struct {
	player  *Player
	card    Card
	variant dice.Variant
	roller  DiceRoller

	phase      TurnPhase
	diceLeft   int
	points     int
	fills      int
	lastRoll   dice.Roll
	lastScore  dice.Score
	bonusAdded bool
}

// NewTurn starts a turn for the player with an already-drawn card.
// A NO DICE card skips the turn immediately.
func NewTurn(player *Player, card Card, variant dice.Variant, roller DiceRoller) *Turn {
	t := &Turn{
		player:   player,
		card:     card,
		variant:  variant,
		roller:   roller,
		phase:    PhaseRolling,
		diceLeft: dice.MaxDice,
	}
	if card == CardNoDice {
		t.phase = PhaseSkipped
	}
	return t
}

func (t *Turn) Player() *Player       { return t.player }
func (t *Turn) Card() Card            { return t.card }
func (t *Turn) Phase() TurnPhase      { return t.phase }
func (t *Turn) Points() int           { return t.points }
func (t *Turn) DiceLeft() int         { return t.diceLeft }
func (t *Turn) Fills() int            { return t.fills }
func (t *Turn) LastRoll() dice.Roll   { return t.lastRoll }
func (t *Turn) LastScore() dice.Score { return t.lastScore }

// RollDice throws the remaining dice. A roll with no scoring dice busts
// the turn; otherwise the turn moves to PhaseDeciding.
func (t *Turn) RollDice() (dice.Roll, dice.Score, error) {
	if t.phase.Terminal() {
		return nil, dice.Score{}, ErrTurnOver
	}
	if t.phase != PhaseRolling {
		return nil, dice.Score{}, ErrNotRolling
	}

	t.lastRoll = t.roller.Roll(t.diceLeft)
	t.lastScore = dice.Evaluate(t.lastRoll, t.variant)

	if t.lastScore.IsBust() {
		t.phase = PhaseBusted
	} else {
		t.phase = PhaseDeciding
	}
	return t.lastRoll, t.lastScore, nil
}

// Keep sets aside the dice at the given 0-based positions of the last
// roll, crediting their value to the turn. Emptying the dice pool is a
// fill: the pool resets to six and any bonus card pays out once.
// Returns the kept subset's score and whether this keep filled.
func (t *Turn) Keep(picks []int) (dice.Score, bool, error) {
	if t.phase.Terminal() {
		return dice.Score{}, false, ErrTurnOver
	}
	if t.phase != PhaseDeciding {
		return dice.Score{}, false, ErrNotDeciding
	}

	score, err := dice.ValidateKeep(t.lastRoll, picks, t.variant)
	if err != nil {
		return dice.Score{}, false, err
	}

	t.points += score.Points
	t.diceLeft -= len(picks)

	filled := false
	if t.diceLeft == 0 {
		filled = true
		t.fills++
		t.diceLeft = dice.MaxDice
		if bonus := t.card.Bonus(); bonus > 0 && !t.bonusAdded {
			t.points += bonus
			t.bonusAdded = true
		}
	}

	t.phase = PhaseRolling
	return score, filled, nil
}

// KeepAll sets aside every scoring-eligible die of the last roll.
func (t *Turn) KeepAll() (dice.Score, bool, error) {
	if t.phase != PhaseDeciding {
		if t.phase.Terminal() {
			return dice.Score{}, false, ErrTurnOver
		}
		return dice.Score{}, false, ErrNotDeciding
	}
	return t.Keep(dice.ScoringPositions(t.lastRoll, t.variant))
}

// CanBank reports whether banking is currently legal: the turn must
// have points, MUST BUST forbids banking outright, and DOUBLE TROUBLE
// holds banking until the second fill.
func (t *Turn) CanBank() bool {
	return t.bankBlocker() == nil
}

func (t *Turn) bankBlocker() error {
	if t.points <= 0 {
		return ErrNothingToBank
	}
	switch t.card {
	case CardMustBust:
		return ErrMustBust
	case CardDoubleTrouble:
		if t.fills < 2 {
			return ErrNeedSecondFill
		}
	}
	return nil
}

// Bank ends the turn with the accumulated points. Banking from
// PhaseDeciding forfeits the un-kept roll on the table, exactly as
// banking instead of picking does at a table.
func (t *Turn) Bank() error {
	if t.phase.Terminal() {
		return ErrTurnOver
	}
	if err := t.bankBlocker(); err != nil {
		return err
	}
	t.phase = PhaseBanked
	return nil
}

// Result settles the turn. Only valid once the phase is terminal.
func (t *Turn) Result() (TurnResult, error) {
	if !t.phase.Terminal() {
		return TurnResult{}, fmt.Errorf("turn still %s", t.phase)
	}
	result := TurnResult{Fills: t.fills, Card: t.card}
	switch t.phase {
	case PhaseBanked:
		result.Outcome = OutcomeBanked
		result.Points = t.points
	case PhaseBusted:
		result.Outcome = OutcomeBusted
		// MUST BUST pays the partial total out on the bust.
		if t.card == CardMustBust {
			result.Points = t.points
		}
	case PhaseSkipped:
		result.Outcome = OutcomeSkipped
	}
	return result, nil
}

// FillsNeeded returns how many more fills unlock banking, for prompts.
func (t *Turn) FillsNeeded() int {
	if t.card == CardDoubleTrouble && t.fills < 2 {
		return 2 - t.fills
	}
	return 0
}
