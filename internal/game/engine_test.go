package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/lox/fillorbust/dice"
)

// scriptedDeck deals a fixed card sequence, cycling when exhausted.
type scriptedDeck struct {
	cards []Card
	index int
}

func (s *scriptedDeck) Draw() Card {
	card := s.cards[s.index%len(s.cards)]
	s.index++
	return card
}

// scriptedAgent replays predetermined decisions and records every view
// it was shown.
type scriptedAgent struct {
	decisions []Decision
	views     []TurnView
	index     int
}

func (s *scriptedAgent) Act(view TurnView) (Decision, error) {
	s.views = append(s.views, view)
	if s.index >= len(s.decisions) {
		return Decision{Action: ActionBank, Reasoning: "script exhausted"}, nil
	}
	decision := s.decisions[s.index]
	s.index++
	return decision, nil
}

// eventRecorder captures published events for assertions.
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []EventType {
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

func TestEngineFirstToTargetWinsImmediately(t *testing.T) {
	recorder := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(recorder)

	engine, err := NewEngine(Config{
		Players: []PlayerSpec{
			{Name: "Alice", Kind: AI, Threshold: 500},
			{Name: "Bob", Kind: AI, Threshold: 500},
		},
		TargetPoints: 300,
	},
		WithEventBus(bus),
		WithDeck(&scriptedDeck{cards: []Card{CardBonus300}}),
		// Triple 1s: Alice keeps 1000, over her threshold, banks.
		WithRoller(&scriptedRoller{rolls: []dice.Roll{{1, 1, 1, 2, 3, 4}}}),
	)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	winner, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if winner != 0 {
		t.Fatalf("winner = %d, want 0", winner)
	}
	players := engine.Players()
	if players[0].Points != 1000 {
		t.Errorf("Alice's total = %d, want 1000", players[0].Points)
	}
	// Bob never gets a turn: the win check fires at Alice's boundary.
	if players[1].Points != 0 {
		t.Errorf("Bob's total = %d, want 0 (no turn played)", players[1].Points)
	}

	want := []EventType{
		EventTypeGameStarted,
		EventTypeTurnStarted,
		EventTypeDiceRolled,
		EventTypeDiceKept,
		EventTypeTurnEnded,
		EventTypeGameEnded,
	}
	got := recorder.types()
	if len(got) != len(want) {
		t.Fatalf("event sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEngineRotatesSeatsUntilWin(t *testing.T) {
	recorder := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(recorder)

	engine, err := NewEngine(Config{
		Players: []PlayerSpec{
			{Name: "P1", Kind: AI, Threshold: 500},
			{Name: "P2", Kind: AI, Threshold: 500},
		},
		TargetPoints: 2000,
	},
		WithEventBus(bus),
		WithDeck(&scriptedDeck{cards: []Card{CardBonus300}}),
		WithRoller(&scriptedRoller{rolls: []dice.Roll{
			{2, 3, 4, 4, 6, 6}, // P1 turn 1: bust
			{1, 1, 1, 1, 1, 1}, // P2 turn 1: 1300, fill, +300 bonus, banks 1600
			{2, 2, 3, 3, 4, 4}, // P1 turn 2: bust
			{1, 1, 1, 5, 5, 5}, // P2 turn 2: 1500, fill, +300 bonus, banks 1800
		}}),
	)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	winner, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if winner != 1 {
		t.Fatalf("winner = %d, want 1", winner)
	}
	players := engine.Players()
	if players[0].Points != 0 {
		t.Errorf("P1 total = %d, want 0 (busted twice)", players[0].Points)
	}
	if players[1].Points != 3400 {
		t.Errorf("P2 total = %d, want 3400", players[1].Points)
	}

	last := recorder.events[len(recorder.events)-1]
	ended, ok := last.(GameEndedEvent)
	if !ok {
		t.Fatalf("last event is %s, want game ended", last.EventType())
	}
	if ended.Turns != 4 {
		t.Errorf("game took %d turns, want 4", ended.Turns)
	}
	if ended.Winner.Name != "P2" {
		t.Errorf("winner name = %s, want P2", ended.Winner.Name)
	}
}

func TestEngineNoDiceLosesTheTurn(t *testing.T) {
	recorder := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(recorder)

	engine, err := NewEngine(Config{
		Players: []PlayerSpec{
			{Name: "P1", Kind: AI, Threshold: 500},
			{Name: "P2", Kind: AI, Threshold: 500},
		},
		TargetPoints: 300,
	},
		WithEventBus(bus),
		WithDeck(&scriptedDeck{cards: []Card{CardNoDice, CardBonus300}}),
		WithRoller(&scriptedRoller{rolls: []dice.Roll{{1, 1, 1, 2, 3, 4}}}),
	)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	winner, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if winner != 1 {
		t.Fatalf("winner = %d, want 1", winner)
	}

	var skipped bool
	for _, event := range recorder.events {
		if e, ok := event.(TurnEndedEvent); ok && e.Player.Name == "P1" {
			if e.Result.Outcome != OutcomeSkipped {
				t.Errorf("P1's turn outcome = %s, want skipped", e.Result.Outcome)
			}
			skipped = true
		}
	}
	if !skipped {
		t.Error("no turn ended event for P1")
	}
}

// badAIAgent keeps a non-scoring die, which is a contract violation for
// machine seats.
type badAIAgent struct{}

func (badAIAgent) Act(view TurnView) (Decision, error) {
	if view.Phase == PhaseDeciding {
		return Decision{Action: ActionKeep, Picks: []int{1}}, nil
	}
	return Decision{Action: ActionRoll}, nil
}

func TestEngineAIContractViolationAbortsGame(t *testing.T) {
	engine, err := NewEngine(Config{
		Players:      []PlayerSpec{{Name: "Bad", Kind: AI, Agent: badAIAgent{}}},
		TargetPoints: 300,
	},
		WithDeck(&scriptedDeck{cards: []Card{CardBonus300}}),
		WithRoller(&scriptedRoller{rolls: []dice.Roll{{1, 2, 3, 4, 6, 6}}}),
	)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	if _, err := engine.Run(); err == nil {
		t.Fatal("Run with an AI keeping non-scoring dice did not error")
	} else if !strings.Contains(err.Error(), "illegal decision") {
		t.Errorf("error = %v, want illegal decision", err)
	}
}

func TestEngineRepromptsHumanOnInvalidKeep(t *testing.T) {
	agent := &scriptedAgent{decisions: []Decision{
		{Action: ActionKeep, Picks: []int{1}}, // Position 2 shows a 2: rejected
		{Action: ActionKeep, Picks: []int{0}},
		{Action: ActionBank},
	}}

	engine, err := NewEngine(Config{
		Players:      []PlayerSpec{{Name: "You", Kind: Human, Agent: agent}},
		TargetPoints: 100,
	},
		WithDeck(&scriptedDeck{cards: []Card{CardBonus300}}),
		WithRoller(&scriptedRoller{rolls: []dice.Roll{{1, 2, 3, 4, 6, 6}}}),
	)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	winner, err := engine.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if winner != 0 {
		t.Fatalf("winner = %d, want 0", winner)
	}
	if len(agent.views) != 3 {
		t.Fatalf("agent consulted %d times, want 3", len(agent.views))
	}
	if agent.views[0].LastError != "" {
		t.Errorf("first view carries an error: %q", agent.views[0].LastError)
	}
	if agent.views[1].LastError == "" {
		t.Error("re-prompt view is missing the rejection reason")
	}
	if agent.views[1].Phase != PhaseDeciding {
		t.Errorf("re-prompt phase = %s, want deciding", agent.views[1].Phase)
	}
}

func TestEngineSeededGamesAreReproducible(t *testing.T) {
	play := func() (int, []int) {
		engine, err := NewEngine(Config{
			Players: []PlayerSpec{
				{Name: "A", Kind: AI, Threshold: 400},
				{Name: "B", Kind: AI, Threshold: 500},
				{Name: "C", Kind: AI, Threshold: 600},
			},
			TargetPoints: 2000,
		}, WithRNG(rand.New(rand.NewSource(42))))
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		winner, err := engine.Run()
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		totals := make([]int, 0, 3)
		for _, p := range engine.Players() {
			totals = append(totals, p.Points)
		}
		return winner, totals
	}

	winner1, totals1 := play()
	winner2, totals2 := play()
	if winner1 != winner2 {
		t.Fatalf("same seed produced winners %d and %d", winner1, winner2)
	}
	for i := range totals1 {
		if totals1[i] != totals2[i] {
			t.Errorf("player %d totals differ between runs: %d vs %d", i, totals1[i], totals2[i])
		}
	}

	if totals1[winner1] < 2000 {
		t.Errorf("winner's total %d is below the target", totals1[winner1])
	}
	for i, total := range totals1 {
		if i != winner1 && total >= 2000 {
			t.Errorf("non-winner %d finished at %d, above the target", i, total)
		}
		if total < 0 {
			t.Errorf("player %d finished with negative total %d", i, total)
		}
	}
}

func TestEngineConfigValidation(t *testing.T) {
	if _, err := NewEngine(Config{}); err == nil {
		t.Error("NewEngine with no players did not error")
	}
	if _, err := NewEngine(Config{
		Players: []PlayerSpec{{Name: "You", Kind: Human}},
	}); err == nil {
		t.Error("NewEngine with an agent-less human did not error")
	}
	if _, err := NewEngine(Config{
		Players:      []PlayerSpec{{Name: "Bot", Kind: AI}},
		TargetPoints: -10,
	}); err == nil {
		t.Error("NewEngine with a negative target did not error")
	}
}
