package domain

import "time"

// Record is the serializable shape of a finished reading handed to history storage.
type Record struct {
	ID             string       `json:"id" yaml:"id"`
	Timestamp      time.Time    `json:"timestamp" yaml:"timestamp"`
	SpreadKey      string       `json:"spread_key" yaml:"spread_key"`
	SpreadName     string       `json:"spread_name" yaml:"spread_name"`
	Question       string       `json:"question" yaml:"question"`
	Cards          []RecordCard `json:"cards" yaml:"cards"`
	Interpretation string       `json:"interpretation" yaml:"interpretation"`
	Narrative      string       `json:"narrative,omitempty" yaml:"narrative,omitempty"`
}

// RecordCard is a drawn card flattened for storage.
type RecordCard struct {
	Index       int         `json:"index" yaml:"index"`
	Position    string      `json:"position" yaml:"position"`
	Name        string      `json:"name" yaml:"name"`
	Arcana      Arcana      `json:"arcana" yaml:"arcana"`
	Suit        string      `json:"suit,omitempty" yaml:"suit,omitempty"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	Meaning     string      `json:"meaning" yaml:"meaning"`
	Keywords    []string    `json:"keywords" yaml:"keywords"`
	Element     string      `json:"element,omitempty" yaml:"element,omitempty"`
}

// ToRecord flattens a reading and its rendered interpretation. ID is left empty
// for the caller to assign.
func ToRecord(r Reading, interpretation string, at time.Time) Record {
	cards := make([]RecordCard, len(r.Cards))
	for i, c := range r.Cards {
		cards[i] = RecordCard{
			Index:       c.Index,
			Position:    c.Position,
			Name:        c.Name,
			Arcana:      c.Arcana,
			Suit:        c.Suit,
			Orientation: c.Orientation,
			Meaning:     c.Meaning(c.Orientation),
			Keywords:    append([]string(nil), c.Keywords...),
			Element:     c.Element,
		}
	}
	return Record{
		Timestamp:      at.UTC(),
		SpreadKey:      r.Spread.Key,
		SpreadName:     r.Spread.Name,
		Question:       r.Question,
		Cards:          cards,
		Interpretation: interpretation,
	}
}
