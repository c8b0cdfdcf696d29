package game

// PlayerKind distinguishes how a seat is driven.
type PlayerKind uint8

const (
	Human PlayerKind = iota
	AI
)

// String returns the display name of the player kind.
func (k PlayerKind) String() string {
	switch k {
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return "unknown"
	}
}

// Player represents one seat in a game.
type Player struct {
	Seat   int
	Name   string
	Kind   PlayerKind
	Points int
	Agent  Agent
}

// IsAI reports whether the seat is machine driven.
func (p *Player) IsAI() bool {
	return p.Kind == AI
}
