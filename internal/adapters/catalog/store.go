package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/randomtoy/arcano/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

const (
	majorArcanaFile = "data/major_arcana.json"
	spreadsFile     = "data/spreads.json"

	deckSize = 78
)

// suitElements lists the minor arcana suits in deck order with their element.
var suitElements = []struct{ suit, element string }{
	{"Bastos", "Fuego"},
	{"Copas", "Agua"},
	{"Espadas", "Aire"},
	{"Oros", "Tierra"},
}

// EmbeddedStore serves the deck and spread catalog from embedded JSON.
// Both are built once and never modified afterwards.
type EmbeddedStore struct {
	once    sync.Once
	deck    domain.Deck
	spreads []domain.Spread
	byKey   map[string]int
	err     error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	majors, err := loadJSON[[]domain.Card](majorArcanaFile)
	if err != nil {
		s.err = err
		return
	}
	spreads, err := loadJSON[[]domain.Spread](spreadsFile)
	if err != nil {
		s.err = err
		return
	}

	deck := BuildDeck(majors)
	if err := ValidateDeck(deck); err != nil {
		s.err = err
		return
	}
	byKey := make(map[string]int, len(spreads))
	for i, sp := range spreads {
		if err := ValidateSpread(sp, len(deck.Cards)); err != nil {
			s.err = err
			return
		}
		if _, dup := byKey[sp.Key]; dup {
			s.err = fmt.Errorf("%w: duplicate spread key %q", domain.ErrInvalidSpread, sp.Key)
			return
		}
		byKey[sp.Key] = i
	}

	s.deck = deck
	s.spreads = spreads
	s.byKey = byKey
}

func loadJSON[T any](name string) (T, error) {
	var out T
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return out, fmt.Errorf("read embedded %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("parse embedded %s: %w", name, err)
	}
	return out, nil
}

// BuildDeck appends the templated minor arcana to the given majors.
func BuildDeck(majors []domain.Card) domain.Deck {
	cards := make([]domain.Card, 0, len(majors)+len(suitElements)*14)
	for _, c := range majors {
		c.Arcana = domain.Major
		cards = append(cards, c)
	}
	for _, se := range suitElements {
		for rank := 1; rank <= 14; rank++ {
			cards = append(cards, domain.Card{
				Name:     fmt.Sprintf("%s de %s", rankName(rank), se.suit),
				Number:   rank,
				Arcana:   domain.Minor,
				Suit:     se.suit,
				Upright:  fmt.Sprintf("Energía de %s en su expresión positiva", se.suit),
				Reversed: fmt.Sprintf("Energía de %s bloqueada o en desequilibrio", se.suit),
				Keywords: []string{strings.ToLower(se.suit), strings.ToLower(se.element)},
				Element:  se.element,
			})
		}
	}
	return domain.Deck{Cards: cards}
}

func rankName(rank int) string {
	switch rank {
	case 1:
		return "As"
	case 11:
		return "Sota"
	case 12:
		return "Caballo"
	case 13:
		return "Reina"
	case 14:
		return "Rey"
	default:
		return fmt.Sprint(rank)
	}
}

// ValidateDeck checks the deck size and that card names are unique.
func ValidateDeck(d domain.Deck) error {
	if len(d.Cards) != deckSize {
		return fmt.Errorf("deck has %d cards, want %d", len(d.Cards), deckSize)
	}
	seen := make(map[string]bool, len(d.Cards))
	for _, c := range d.Cards {
		if seen[c.Name] {
			return fmt.Errorf("duplicate card name %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// ValidateSpread rejects spreads that could never be drawn or interpreted.
func ValidateSpread(sp domain.Spread, deckLen int) error {
	if sp.Key == "" {
		return fmt.Errorf("%w: missing key", domain.ErrInvalidSpread)
	}
	if sp.Size() < 1 {
		return fmt.Errorf("%w: %q has no positions", domain.ErrInvalidSpread, sp.Key)
	}
	if sp.Size() > deckLen {
		return fmt.Errorf("spread %q: %w", sp.Key, domain.ErrInsufficientDeck)
	}
	switch sp.Strategy {
	case domain.StrategySingle, domain.StrategyAggregate:
	case domain.StrategyTemporal:
		if sp.Size() != 3 {
			return fmt.Errorf("%w: temporal spread %q needs 3 positions, has %d", domain.ErrInvalidSpread, sp.Key, sp.Size())
		}
	default:
		return fmt.Errorf("%w: %q has unknown strategy %q", domain.ErrInvalidSpread, sp.Key, sp.Strategy)
	}
	return nil
}

// GetDeck returns a fresh copy of the canonical deck.
func (s *EmbeddedStore) GetDeck(_ context.Context) (domain.Deck, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Deck{}, s.err
	}
	return s.deck.Clone(), nil
}

func (s *EmbeddedStore) GetSpread(_ context.Context, key string) (domain.Spread, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Spread{}, s.err
	}
	i, ok := s.byKey[key]
	if !ok {
		return domain.Spread{}, fmt.Errorf("%w: %q", domain.ErrUnknownSpread, key)
	}
	return cloneSpread(s.spreads[i]), nil
}

// ListSpreads returns every spread in catalog order.
func (s *EmbeddedStore) ListSpreads(_ context.Context) ([]domain.Spread, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Spread, len(s.spreads))
	for i, sp := range s.spreads {
		out[i] = cloneSpread(sp)
	}
	return out, nil
}

func cloneSpread(sp domain.Spread) domain.Spread {
	sp.Positions = append([]string(nil), sp.Positions...)
	return sp
}
