package dice

import (
	"errors"
	"fmt"
	"sort"
)

// Variant selects how dice beyond three of a kind are valued.
type Variant uint8

const (
	// VariantCard values a set as exactly three dice; extras score only
	// as loose 1s and 5s.
	VariantCard Variant = iota
	// VariantClassic escalates four, five and six of a kind to x2, x4
	// and x8 of the triple value, consuming every matching die.
	VariantClassic
)

// String returns the variant name used in flags and config files.
func (v Variant) String() string {
	switch v {
	case VariantCard:
		return "card"
	case VariantClassic:
		return "classic"
	default:
		return "unknown"
	}
}

// ParseVariant parses a variant name from flags or config.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "card":
		return VariantCard, nil
	case "classic":
		return VariantClassic, nil
	default:
		return VariantCard, fmt.Errorf("unknown scoring variant %q", s)
	}
}

// ComboKind enumerates the scoring elements a roll can contain.
type ComboKind uint8

const (
	SingleOne ComboKind = iota
	SingleFive
	Triple
	FourOfAKind
	FiveOfAKind
	SixOfAKind
)

// String returns a display name for the combination kind.
func (k ComboKind) String() string {
	switch k {
	case SingleOne:
		return "single 1"
	case SingleFive:
		return "single 5"
	case Triple:
		return "three of a kind"
	case FourOfAKind:
		return "four of a kind"
	case FiveOfAKind:
		return "five of a kind"
	case SixOfAKind:
		return "six of a kind"
	default:
		return "unknown"
	}
}

// Combination is one scoring element found in a roll.
type Combination struct {
	Kind   ComboKind
	Face   int
	Count  int // dice consumed by this element
	Points int
}

// String renders "3x2 = 200" style descriptions for breakdowns.
func (c Combination) String() string {
	return fmt.Sprintf("%dx%d = %d", c.Count, c.Face, c.Points)
}

// Score is the result of evaluating a roll.
type Score struct {
	Points int
	Used   int // number of dice contributing points
	Combos []Combination
}

// IsBust reports whether the roll contains no scoring dice.
func (s Score) IsBust() bool {
	return s.Points == 0
}

// Breakdown renders the combinations as "3x2 = 200, 1x5 = 50".
func (s Score) Breakdown() string {
	if len(s.Combos) == 0 {
		return "nothing"
	}
	out := ""
	for i, c := range s.Combos {
		if i > 0 {
			out += ", "
		}
		out += c.String()
	}
	return out
}

// tripleValue is the base worth of three of a kind.
func tripleValue(face int) int {
	if face == 1 {
		return 1000
	}
	return face * 100
}

// setKind maps a consumed-set size to its combination kind.
func setKind(count int) ComboKind {
	switch count {
	case 4:
		return FourOfAKind
	case 5:
		return FiveOfAKind
	case 6:
		return SixOfAKind
	default:
		return Triple
	}
}

// Evaluate scores a roll under the given variant. It is pure: same roll,
// same variant, same score.
//
// Three of a kind is worth face*100 (three 1s are 1000). Loose 1s are 100
// each and loose 5s are 50 each; no other face scores below three of a
// kind. VariantCard treats a set as exactly three dice, so a fourth 3 is
// dead but a fourth 1 or 5 still scores as a single. VariantClassic
// consumes every die of a face with three or more, doubling the triple
// value for each extra die.
func Evaluate(roll Roll, v Variant) Score {
	counts := roll.Counts()
	var s Score
	for face := 1; face <= 6; face++ {
		c := counts[face]
		loose := c
		if c >= 3 {
			if v == VariantClassic {
				points := tripleValue(face) << (c - 3)
				s.Combos = append(s.Combos, Combination{Kind: setKind(c), Face: face, Count: c, Points: points})
				s.Points += points
				s.Used += c
				loose = 0
			} else {
				points := tripleValue(face)
				s.Combos = append(s.Combos, Combination{Kind: Triple, Face: face, Count: 3, Points: points})
				s.Points += points
				s.Used += 3
				loose = c - 3
			}
		}
		switch face {
		case 1:
			if loose > 0 {
				s.Combos = append(s.Combos, Combination{Kind: SingleOne, Face: 1, Count: loose, Points: loose * 100})
				s.Points += loose * 100
				s.Used += loose
			}
		case 5:
			if loose > 0 {
				s.Combos = append(s.Combos, Combination{Kind: SingleFive, Face: 5, Count: loose, Points: loose * 50})
				s.Points += loose * 50
				s.Used += loose
			}
		}
	}
	return s
}

// ScoringPositions returns the 0-based positions a player may legally set
// aside, sorted ascending. A face with three or more of a kind makes its
// first three positions eligible (all of them under VariantClassic);
// 1s and 5s are always eligible.
func ScoringPositions(roll Roll, v Variant) []int {
	byFace := make(map[int][]int)
	for i, face := range roll {
		byFace[face] = append(byFace[face], i)
	}
	var eligible []int
	for face, positions := range byFace {
		switch {
		case len(positions) >= 3:
			if v == VariantClassic || face == 1 || face == 5 {
				eligible = append(eligible, positions...)
			} else {
				eligible = append(eligible, positions[:3]...)
			}
		case face == 1 || face == 5:
			eligible = append(eligible, positions...)
		}
	}
	sort.Ints(eligible)
	return eligible
}

// Keep validation errors.
var (
	ErrNoDiceChosen    = errors.New("no dice chosen")
	ErrIndexOutOfRange = errors.New("die index out of range")
	ErrDuplicateIndex  = errors.New("die index chosen twice")
	ErrNonScoringDie   = errors.New("chosen die is not scoring")
	ErrWorthlessKeep   = errors.New("chosen dice score nothing")
)

// ValidateKeep checks a player's selection of 0-based roll positions and
// returns the score of keeping exactly that subset. The subset must be
// non-empty, within range, free of duplicates, drawn entirely from
// ScoringPositions, and worth more than zero. A legal subset may still
// waste a die (one 2 pulled out of a triple of 2s scores nothing on its
// own); the subset's value is what the player gets.
func ValidateKeep(roll Roll, picks []int, v Variant) (Score, error) {
	if len(picks) == 0 {
		return Score{}, ErrNoDiceChosen
	}
	seen := make(map[int]bool, len(picks))
	for _, i := range picks {
		if i < 0 || i >= len(roll) {
			return Score{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i+1)
		}
		if seen[i] {
			return Score{}, fmt.Errorf("%w: %d", ErrDuplicateIndex, i+1)
		}
		seen[i] = true
	}
	eligible := make(map[int]bool)
	for _, i := range ScoringPositions(roll, v) {
		eligible[i] = true
	}
	for _, i := range picks {
		if !eligible[i] {
			return Score{}, fmt.Errorf("%w: position %d shows %d", ErrNonScoringDie, i+1, roll[i])
		}
	}
	score := Evaluate(roll.Subset(picks), v)
	if score.IsBust() {
		return Score{}, ErrWorthlessKeep
	}
	return score, nil
}
