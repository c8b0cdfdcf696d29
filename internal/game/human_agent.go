package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Prompter abstracts how a human is asked for input. Console and TUI
// front ends both implement it.
type Prompter interface {
	// Prompt shows a question and returns the raw reply.
	Prompt(question string) (string, error)
	// Say shows a message without waiting.
	Say(message string)
	// Ack blocks until the player confirms with "y".
	Ack(message string)
}

// HumanAgent bridges a seat to a Prompter. Malformed input is re-asked
// at the prompt level; decisions the turn rejects come back through Act
// with LastError set and are asked again.
type HumanAgent struct {
	prompter Prompter
}

// NewHumanAgent creates a human agent speaking through the prompter.
func NewHumanAgent(prompter Prompter) *HumanAgent {
	return &HumanAgent{prompter: prompter}
}

// Act implements Agent.
func (h *HumanAgent) Act(view TurnView) (Decision, error) {
	if view.LastError != "" {
		h.prompter.Say(" " + view.LastError)
	}
	switch view.Phase {
	case PhaseDeciding:
		return h.pickDice(view)
	case PhaseRolling:
		return h.rollOrBank(view)
	default:
		return Decision{}, fmt.Errorf("no decision to make in phase %s", view.Phase)
	}
}

// Acknowledge implements Acknowledger with a blocking y-gate.
func (h *HumanAgent) Acknowledge(view TurnView, note string) {
	h.prompter.Ack(note + ". Press 'y' to continue: ")
}

func (h *HumanAgent) pickDice(view TurnView) (Decision, error) {
	for {
		choice, err := h.prompter.Prompt("(k)eep all scoring dice, (c)hoose indices from roll, or (b)ank? [k/c/b]: ")
		if err != nil {
			return Decision{}, fmt.Errorf("reading keep choice: %w", err)
		}
		fields := strings.Fields(strings.ToLower(choice))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "k":
			return Decision{Action: ActionKeep, KeepAll: true, Reasoning: "keep all"}, nil
		case "b":
			return Decision{Action: ActionBank, Reasoning: "bank from pick"}, nil
		case "c":
			// Indices may ride along ("c 1 3 5") or be asked for.
			picks, err := h.parseIndices(fields[1:])
			if err != nil {
				return Decision{}, err
			}
			if picks == nil {
				continue // Malformed list, ask the menu again
			}
			return Decision{Action: ActionKeep, Picks: picks, Reasoning: "chosen dice"}, nil
		}
	}
}

// parseIndices turns 1-based dice positions into 0-based picks. With no
// parts it asks for the list first. Returns a nil slice (no error) when
// the input was malformed.
func (h *HumanAgent) parseIndices(parts []string) ([]int, error) {
	if len(parts) == 0 {
		reply, err := h.prompter.Prompt("Enter 1-based indices of dice to keep (space-separated): ")
		if err != nil {
			return nil, fmt.Errorf("reading dice indices: %w", err)
		}
		parts = strings.Fields(reply)
		if len(parts) == 0 {
			h.prompter.Say(" No dice given; try again.")
			return nil, nil
		}
	}
	picks := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			h.prompter.Say(" Invalid input; try again.")
			return nil, nil
		}
		picks = append(picks, n-1)
	}
	return picks, nil
}

func (h *HumanAgent) rollOrBank(view TurnView) (Decision, error) {
	for {
		choice, err := h.prompter.Prompt("(r)oll again or (b)ank? [r/b]: ")
		if err != nil {
			return Decision{}, fmt.Errorf("reading roll choice: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "r":
			return Decision{Action: ActionRoll, Reasoning: "roll again"}, nil
		case "b":
			return Decision{Action: ActionBank, Reasoning: "bank"}, nil
		}
	}
}
