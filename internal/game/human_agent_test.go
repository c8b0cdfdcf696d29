package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/lox/fillorbust/dice"
)

// scriptedPrompter feeds canned replies and records everything said.
type scriptedPrompter struct {
	replies []string
	index   int
	said    []string
	acks    []string
}

func (p *scriptedPrompter) Prompt(question string) (string, error) {
	if p.index >= len(p.replies) {
		return "", errors.New("out of scripted replies")
	}
	reply := p.replies[p.index]
	p.index++
	return reply, nil
}

func (p *scriptedPrompter) Say(message string) { p.said = append(p.said, message) }
func (p *scriptedPrompter) Ack(message string) { p.acks = append(p.acks, message) }

func decidingView() TurnView {
	roll := dice.Roll{1, 2, 3, 4, 6, 6}
	return TurnView{
		Phase: PhaseDeciding,
		Roll:  roll,
		Score: dice.Evaluate(roll, dice.VariantCard),
	}
}

func TestHumanAgentKeepAll(t *testing.T) {
	agent := NewHumanAgent(&scriptedPrompter{replies: []string{"k"}})
	decision, err := agent.Act(decidingView())
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if decision.Action != ActionKeep || !decision.KeepAll {
		t.Errorf("decision = %s (keepAll=%v), want keep all", decision.Action, decision.KeepAll)
	}
}

func TestHumanAgentChoosesIndices(t *testing.T) {
	agent := NewHumanAgent(&scriptedPrompter{replies: []string{"c", "1 5"}})
	decision, err := agent.Act(decidingView())
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if decision.Action != ActionKeep {
		t.Fatalf("decision = %s, want keep", decision.Action)
	}
	// 1-based input becomes 0-based picks.
	if len(decision.Picks) != 2 || decision.Picks[0] != 0 || decision.Picks[1] != 4 {
		t.Errorf("picks = %v, want [0 4]", decision.Picks)
	}
}

func TestHumanAgentOneShotChoose(t *testing.T) {
	// "c 1 3" carries the indices with the menu choice.
	prompter := &scriptedPrompter{replies: []string{"c 1 3"}}
	agent := NewHumanAgent(prompter)
	decision, err := agent.Act(decidingView())
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if decision.Action != ActionKeep {
		t.Fatalf("decision = %s, want keep", decision.Action)
	}
	if len(decision.Picks) != 2 || decision.Picks[0] != 0 || decision.Picks[1] != 2 {
		t.Errorf("picks = %v, want [0 2]", decision.Picks)
	}
	if prompter.index != 1 {
		t.Errorf("consumed %d replies, want 1", prompter.index)
	}
}

func TestHumanAgentRetriesMalformedInput(t *testing.T) {
	prompter := &scriptedPrompter{replies: []string{"x", "c", "one two", "c", "2 3", "k"}}
	agent := NewHumanAgent(prompter)
	decision, err := agent.Act(decidingView())
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	// "x" is ignored, "one two" re-asks the menu, "2 3" parses, and the
	// trailing "k" is never consumed.
	if decision.Action != ActionKeep || len(decision.Picks) != 2 {
		t.Fatalf("decision = %s picks=%v, want keep [1 2]", decision.Action, decision.Picks)
	}
	if prompter.index != 5 {
		t.Errorf("consumed %d replies, want 5", prompter.index)
	}
	if len(prompter.said) == 0 {
		t.Error("malformed input produced no feedback")
	}
}

func TestHumanAgentRollOrBank(t *testing.T) {
	view := TurnView{Phase: PhaseRolling, TurnPoints: 150, BankAllowed: true}

	agent := NewHumanAgent(&scriptedPrompter{replies: []string{"r"}})
	decision, err := agent.Act(view)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if decision.Action != ActionRoll {
		t.Errorf("decision = %s, want roll", decision.Action)
	}

	agent = NewHumanAgent(&scriptedPrompter{replies: []string{"B"}})
	decision, err = agent.Act(view)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if decision.Action != ActionBank {
		t.Errorf("decision = %s, want bank (case-insensitive)", decision.Action)
	}
}

func TestHumanAgentShowsRejectionReason(t *testing.T) {
	prompter := &scriptedPrompter{replies: []string{"k"}}
	agent := NewHumanAgent(prompter)
	view := decidingView()
	view.LastError = "chosen die is not scoring"
	if _, err := agent.Act(view); err != nil {
		t.Fatalf("Act: %v", err)
	}
	if len(prompter.said) == 0 || !contains(prompter.said, "chosen die is not scoring") {
		t.Errorf("rejection reason not surfaced; said = %v", prompter.said)
	}
}

func TestHumanAgentAcknowledge(t *testing.T) {
	prompter := &scriptedPrompter{}
	agent := NewHumanAgent(prompter)
	agent.Acknowledge(TurnView{}, "Busted! No scoring dice")
	if len(prompter.acks) != 1 {
		t.Fatalf("acknowledgements = %d, want 1", len(prompter.acks))
	}
}

func contains(lines []string, substr string) bool {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
