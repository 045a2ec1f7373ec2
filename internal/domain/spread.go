package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxQuestionLen is the longest question, in characters, a reading accepts.
const MaxQuestionLen = 500

// Reading is a completed draw: every position of the spread holds exactly one card.
// It is not modified after NewReading returns.
type Reading struct {
	Spread   Spread      `json:"spread"`
	Question string      `json:"question"`
	Cards    []DrawnCard `json:"cards"`
}

// NewReading draws one card per spread position from deck using rng.
// Card i is bound to spread.Positions[i]; orientation is 50/50 upright/reversed
// and decided independently for each card after the draw.
func NewReading(deck Deck, spread Spread, question string, rng RNG) (Reading, error) {
	if spread.Size() < 1 {
		return Reading{}, fmt.Errorf("%w: spread %q has no positions", ErrInvalidSpread, spread.Key)
	}
	question = strings.TrimSpace(question)
	if utf8.RuneCountInString(question) > MaxQuestionLen {
		return Reading{}, ErrQuestionTooLong
	}

	picked, err := DrawWithoutReplacement(deck.Cards, spread.Size(), rng)
	if err != nil {
		return Reading{}, fmt.Errorf("draw for %q: %w", spread.Key, err)
	}

	cards := make([]DrawnCard, len(picked))
	for i, c := range picked {
		orientation := Upright
		if rng.Intn(2) == 1 {
			orientation = Reversed
		}
		cards[i] = DrawnCard{
			Card:        c,
			Index:       i + 1,
			Position:    spread.Positions[i],
			Orientation: orientation,
		}
	}

	return Reading{
		Spread:   spread,
		Question: question,
		Cards:    cards,
	}, nil
}

// ReversedCount returns how many cards came out reversed.
func (r Reading) ReversedCount() int {
	n := 0
	for _, c := range r.Cards {
		if c.IsReversed() {
			n++
		}
	}
	return n
}

// MajorCount returns how many major arcana cards were drawn.
func (r Reading) MajorCount() int {
	n := 0
	for _, c := range r.Cards {
		if c.Arcana == Major {
			n++
		}
	}
	return n
}

// Tally is a counted label, kept in first-seen order.
type Tally struct {
	Label string
	Count int
}

// ElementCounts counts elemental affinities in draw order.
func (r Reading) ElementCounts() []Tally {
	return tally(r.Cards, func(c DrawnCard) []string {
		if c.Element == "" {
			return nil
		}
		return []string{c.Element}
	})
}

// KeywordCounts counts keyword tags across all drawn cards in draw order.
func (r Reading) KeywordCounts() []Tally {
	return tally(r.Cards, func(c DrawnCard) []string { return c.Keywords })
}

func tally(cards []DrawnCard, labels func(DrawnCard) []string) []Tally {
	var out []Tally
	idx := make(map[string]int)
	for _, c := range cards {
		for _, l := range labels(c) {
			if i, ok := idx[l]; ok {
				out[i].Count++
				continue
			}
			idx[l] = len(out)
			out = append(out, Tally{Label: l, Count: 1})
		}
	}
	return out
}

// Dominant returns the highest count; ties go to the label seen first.
func Dominant(ts []Tally) (Tally, bool) {
	if len(ts) == 0 {
		return Tally{}, false
	}
	best := ts[0]
	for _, t := range ts[1:] {
		if t.Count > best.Count {
			best = t
		}
	}
	return best, true
}
