package game

import (
	"fmt"
)

// DefaultBankThreshold is the turn total at which the stock AI banks.
const DefaultBankThreshold = 500

// AIAgent plays the house policy: keep every scoring die, then bank as
// soon as the turn total reaches its threshold and banking is legal.
// Under MUST BUST it keeps rolling to the forced end; under DOUBLE
// TROUBLE it rolls on until the second fill unlocks banking.
type AIAgent struct {
	threshold int
}

// NewAIAgent creates an AI agent banking at the given turn total.
// A non-positive threshold falls back to the default.
func NewAIAgent(threshold int) *AIAgent {
	if threshold <= 0 {
		threshold = DefaultBankThreshold
	}
	return &AIAgent{threshold: threshold}
}

// Threshold returns the turn total the agent banks at.
func (ai *AIAgent) Threshold() int {
	return ai.threshold
}

// Act implements Agent.
func (ai *AIAgent) Act(view TurnView) (Decision, error) {
	switch view.Phase {
	case PhaseDeciding:
		return Decision{
			Action:    ActionKeep,
			KeepAll:   true,
			Reasoning: "keep all scoring dice",
		}, nil
	case PhaseRolling:
		if view.BankAllowed && view.TurnPoints >= ai.threshold {
			return Decision{
				Action:    ActionBank,
				Reasoning: fmt.Sprintf("turn total %d reached threshold %d", view.TurnPoints, ai.threshold),
			}, nil
		}
		reason := "below threshold"
		if !view.BankAllowed && view.TurnPoints >= ai.threshold {
			reason = "banking not allowed yet"
		}
		return Decision{Action: ActionRoll, Reasoning: reason}, nil
	default:
		return Decision{}, fmt.Errorf("no decision to make in phase %s", view.Phase)
	}
}
