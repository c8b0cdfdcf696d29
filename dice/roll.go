package dice

import (
	"math/rand"
	"strconv"
	"strings"
)

// MaxDice is the number of dice a player starts a turn with.
const MaxDice = 6

// Roll holds the face values of a single throw in throw order.
type Roll []int

// String renders the roll as "[3 1 5]".
func (r Roll) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, face := range r {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(face))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Indexed renders the roll with 1-based positions, "[1:3] [2:1] [3:5]",
// matching the indices players use to pick dice.
func (r Roll) Indexed() string {
	var sb strings.Builder
	for i, face := range r {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(face))
		sb.WriteByte(']')
	}
	return sb.String()
}

// Counts tallies the roll by face. Index 0 is unused.
func (r Roll) Counts() [7]int {
	var counts [7]int
	for _, face := range r {
		if face >= 1 && face <= 6 {
			counts[face]++
		}
	}
	return counts
}

// Subset returns the faces at the given 0-based positions.
// Positions must already be validated against the roll length.
func (r Roll) Subset(picks []int) Roll {
	subset := make(Roll, 0, len(picks))
	for _, i := range picks {
		subset = append(subset, r[i])
	}
	return subset
}

// Roller produces dice rolls from an explicit random source.
type Roller struct {
	rng *rand.Rand // Random source for deterministic rolls
}

// NewRoller creates a roller with explicit RNG. A nil rng falls back to
// the global source.
func NewRoller(rng *rand.Rand) *Roller {
	return &Roller{rng: rng}
}

// Roll throws n dice and returns their faces in throw order.
// Panics if n is outside [1, MaxDice]; callers control the count.
func (ro *Roller) Roll(n int) Roll {
	if n < 1 || n > MaxDice {
		panic("dice: roll count out of range: " + strconv.Itoa(n))
	}
	roll := make(Roll, n)
	for i := range roll {
		if ro.rng != nil {
			roll[i] = ro.rng.Intn(6) + 1
		} else {
			roll[i] = rand.Intn(6) + 1
		}
	}
	return roll
}
