package domain

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Orientation represents the orientation of a drawn tarot card.
type Orientation string

const (
	Upright  Orientation = "upright"
	Reversed Orientation = "reversed"
)

// Arcana distinguishes the two card families of the deck.
type Arcana string

const (
	Major Arcana = "major"
	Minor Arcana = "minor"
)

// Card represents a single tarot card in a deck.
type Card struct {
	Name     string   `json:"name"`
	Number   int      `json:"number"`
	Arcana   Arcana   `json:"arcana"`
	Suit     string   `json:"suit,omitempty"`
	Upright  string   `json:"upright"`
	Reversed string   `json:"reversed"`
	Keywords []string `json:"keywords"`
	Element  string   `json:"element"`
}

// Meaning returns the meaning that applies to the given orientation.
func (c Card) Meaning(o Orientation) string {
	if o == Reversed {
		return c.Reversed
	}
	return c.Upright
}

// Keyword returns the i-th keyword or an empty string.
func (c Card) Keyword(i int) string {
	if i < 0 || i >= len(c.Keywords) {
		return ""
	}
	return c.Keywords[i]
}

// Deck is a collection of tarot cards.
type Deck struct {
	Cards []Card `json:"cards"`
}

// Clone returns a deep copy so draws never touch the canonical deck.
func (d Deck) Clone() Deck {
	cards := make([]Card, len(d.Cards))
	for i, c := range d.Cards {
		c.Keywords = append([]string(nil), c.Keywords...)
		cards[i] = c
	}
	return Deck{Cards: cards}
}

// Strategy selects how a spread is interpreted.
type Strategy string

const (
	StrategySingle    Strategy = "single"
	StrategyTemporal  Strategy = "temporal"
	StrategyAggregate Strategy = "aggregate"
)

// Spread is a named layout of positional roles.
type Spread struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Positions   []string `json:"positions"`
	Description string   `json:"description"`
	Strategy    Strategy `json:"strategy"`
}

// Size is the number of cards the spread draws.
func (s Spread) Size() int { return len(s.Positions) }

// DrawnCard is a card that has been drawn as part of a reading.
type DrawnCard struct {
	Card
	Index       int         `json:"index"`
	Position    string      `json:"position"`
	Orientation Orientation `json:"orientation"`
}

// IsReversed reports whether the card came out reversed.
func (dc DrawnCard) IsReversed() bool { return dc.Orientation == Reversed }
