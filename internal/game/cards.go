package game

import (
	"math/rand"
)

// Card is a special card drawn at the start of every turn.
type Card uint8

const (
	CardBonus300 Card = iota
	CardBonus400
	CardBonus500
	CardNoDice
	CardMustBust
	CardDoubleTrouble
)

// Bonus returns the card's bank bonus, or 0 for non-bonus cards.
func (c Card) Bonus() int {
	switch c {
	case CardBonus300:
		return 300
	case CardBonus400:
		return 400
	case CardBonus500:
		return 500
	default:
		return 0
	}
}

// String returns the card's display name.
func (c Card) String() string {
	switch c {
	case CardBonus300:
		return "BONUS 300"
	case CardBonus400:
		return "BONUS 400"
	case CardBonus500:
		return "BONUS 500"
	case CardNoDice:
		return "NO DICE"
	case CardMustBust:
		return "MUST BUST"
	case CardDoubleTrouble:
		return "DOUBLE TROUBLE"
	default:
		return "UNKNOWN"
	}
}

// deckComposition is the full 20-card deck, listed once per card type.
var deckComposition = []struct {
	card  Card
	count int
}{
	{CardBonus300, 6},
	{CardBonus400, 4},
	{CardBonus500, 2},
	{CardNoDice, 3},
	{CardMustBust, 3},
	{CardDoubleTrouble, 2},
}

// DeckSize is the number of cards in a fresh deck.
const DeckSize = 20

// CardDrawer deals the special card each turn starts with. Satisfied
// by *Deck; tests substitute scripted sequences.
type CardDrawer interface {
	Draw() Card
}

// Deck is the pile of special cards drawn from at each turn start.
// When the pile empties it is rebuilt and reshuffled from the same
// random source, so a deck never runs out mid-game.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a new shuffled deck with explicit RNG.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, DeckSize),
		rng:   rng,
	}
	d.rebuild()
	return d
}

func (d *Deck) rebuild() {
	d.cards = d.cards[:0]
	for _, entry := range deckComposition {
		for range entry.count {
			d.cards = append(d.cards, entry.card)
		}
	}
	d.shuffle()
}

// shuffle reshuffles the pile using Fisher-Yates.
func (d *Deck) shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw takes the next card, rebuilding the deck first if it is empty.
func (d *Deck) Draw() Card {
	if d.next >= len(d.cards) {
		d.rebuild()
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// Remaining returns the number of cards left before a reshuffle.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
