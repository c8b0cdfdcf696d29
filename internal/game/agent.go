package game

import "github.com/lox/fillorbust/dice"

// Action represents what a player chooses to do at a decision point.
type Action uint8

const (
	// ActionKeep sets aside scoring dice from the roll on the table.
	ActionKeep Action = iota
	// ActionRoll throws the remaining dice.
	ActionRoll
	// ActionBank ends the turn, crediting the turn total.
	ActionBank
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionRoll:
		return "roll"
	case ActionBank:
		return "bank"
	default:
		return "unknown"
	}
}

// Decision represents a player's decision with reasoning.
type Decision struct {
	Action    Action
	Picks     []int  // For keeps: 0-based positions in the roll
	KeepAll   bool   // For keeps: take every scoring die instead of Picks
	Reasoning string // Human-readable explanation
}

// TurnView is the read-only snapshot an agent decides from. The engine
// owns all state; agents only observe and answer.
type TurnView struct {
	Phase       TurnPhase
	PlayerName  string
	PlayerTotal int
	Target      int
	Card        Card
	Roll        dice.Roll  // Only populated in PhaseDeciding
	Score       dice.Score // Evaluation of Roll, PhaseDeciding only
	TurnPoints  int
	DiceLeft    int
	Fills       int
	BankAllowed bool
	FillsNeeded int    // Fills still required before banking unlocks
	LastError   string // Why the previous decision was rejected, if any

	ValidActions []Action
}

// Agent represents any entity (human or AI) that can decide for a seat.
// Act is called in PhaseDeciding (keep or bank) and in PhaseRolling once
// the turn has points (roll or bank). An error aborts the game loop;
// invalid decisions from humans are re-prompted with LastError set, from
// AI agents they are contract violations.
type Agent interface {
	Act(view TurnView) (Decision, error)
}

// Acknowledger is implemented by agents that want blocking turn notices
// (busts, lost turns) before play moves on.
type Acknowledger interface {
	Acknowledge(view TurnView, note string)
}
