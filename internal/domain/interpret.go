package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section is one paragraph of an interpretation, optionally headed by a position label.
type Section struct {
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text"`
}

// Interpretation is the prose synthesized from a reading.
type Interpretation struct {
	Title    string    `json:"title"`
	Question string    `json:"question,omitempty"`
	Sections []Section `json:"sections"`
}

// Text renders the body as plain text, one paragraph per section.
func (in Interpretation) Text() string {
	parts := make([]string, len(in.Sections))
	for i, s := range in.Sections {
		if s.Heading != "" {
			parts[i] = s.Heading + ": " + s.Text
			continue
		}
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n\n")
}

// Minimum counts that trigger the optional aggregate clauses.
const (
	majorLessonThreshold  = 3
	elementDominanceCount = 3
	recurringThemeCount   = 2
)

var elementThemes = map[string]string{
	"Fuego":  "la acción, pasión y creatividad",
	"Agua":   "las emociones, intuición y relaciones",
	"Aire":   "la comunicación, ideas y decisiones",
	"Tierra": "lo práctico, material y la estabilidad",
}

// Interpret synthesizes the interpretation of r. The output depends only on the
// reading's cards, orientations, positions and spread.
func Interpret(r Reading) Interpretation {
	in := Interpretation{
		Title:    r.Spread.Name,
		Question: r.Question,
	}
	lower := cases.Lower(language.Spanish)

	switch r.Spread.Strategy {
	case StrategySingle:
		if len(r.Cards) > 0 {
			in.Sections = []Section{interpretSingle(r.Cards[0], lower)}
		}
	case StrategyTemporal:
		in.Sections = interpretTemporal(r.Cards, lower)
	default:
		in.Sections = interpretAggregate(r)
	}
	return in
}

func interpretSingle(c DrawnCard, lower cases.Caser) Section {
	var b strings.Builder
	fmt.Fprintf(&b, "La carta %s ", c.Name)
	if c.IsReversed() {
		fmt.Fprintf(&b, "aparece invertida, sugiriendo que debes prestar atención a los aspectos ocultos o bloqueados relacionados con %s.",
			lower.String(c.Reversed))
	} else {
		fmt.Fprintf(&b, "te invita a abrazar %s.", lower.String(c.Upright))
	}
	if kw := leadingKeywords(c.Keywords, 2); kw != "" {
		fmt.Fprintf(&b, " Las energías de %s están presentes en este momento.", kw)
	}
	return Section{Heading: c.Position, Text: b.String()}
}

func leadingKeywords(kws []string, n int) string {
	if len(kws) > n {
		kws = kws[:n]
	}
	return strings.Join(kws, " y ")
}

// Temporal phrasing is keyed on the slot, not the label text.
func interpretTemporal(cards []DrawnCard, lower cases.Caser) []Section {
	out := make([]Section, 0, len(cards))
	for i, c := range cards {
		var text string
		switch i {
		case 0:
			if c.IsReversed() {
				text = fmt.Sprintf("%s invertida nos habla de desafíos pasados relacionados con %s.", c.Name, c.Keyword(0))
			} else {
				text = fmt.Sprintf("%s indica que %s ha sido una influencia importante.", c.Name, c.Keyword(0))
			}
		case 1:
			if c.IsReversed() {
				text = fmt.Sprintf("%s invertida sugiere que actualmente enfrentas %s.", c.Name, lower.String(c.Reversed))
			} else {
				text = fmt.Sprintf("%s muestra que %s.", c.Name, lower.String(c.Upright))
			}
		default:
			if c.IsReversed() {
				text = fmt.Sprintf("%s invertida advierte sobre posibles obstáculos en %s, pero también ofrece la oportunidad de transformación.", c.Name, c.Keyword(0))
			} else {
				text = fmt.Sprintf("%s promete %s.", c.Name, lower.String(c.Upright))
			}
		}
		out = append(out, Section{Heading: c.Position, Text: text})
	}
	return out
}

func interpretAggregate(r Reading) []Section {
	total := len(r.Cards)
	reversed := r.ReversedCount()
	majors := r.MajorCount()
	elements := r.ElementCounts()

	var b strings.Builder
	fmt.Fprintf(&b, "Esta lectura de %d cartas revela un panorama complejo. Hay %d cartas invertidas y %d Arcanos Mayores.",
		total, reversed, majors)
	dominant, hasElement := Dominant(elements)
	if hasElement {
		fmt.Fprintf(&b, " El elemento más frecuente es %s (%d de %d cartas).", dominant.Label, dominant.Count, total)
	}
	sections := []Section{{Text: b.String()}}

	var notes []string
	if majors >= majorLessonThreshold {
		notes = append(notes, fmt.Sprintf("La presencia de %d Arcanos Mayores indica que estás atravesando un período de importantes lecciones espirituales y transformaciones profundas.", majors))
	}
	switch {
	case reversed*2 > total:
		notes = append(notes, fmt.Sprintf("Con %d cartas invertidas, es momento de mirar hacia adentro y trabajar en los bloqueos internos.", reversed))
	case reversed == 0:
		notes = append(notes, "Todas las cartas están derechas, indicando un flujo claro de energía.")
	}
	if theme, ok := Dominant(r.KeywordCounts()); ok && theme.Count >= recurringThemeCount {
		notes = append(notes, fmt.Sprintf("El tema de '%s' aparece repetidamente en tu lectura, sugiriendo su importancia central en tu situación actual.", theme.Label))
	}
	if len(notes) > 0 {
		sections = append(sections, Section{Text: strings.Join(notes, " ")})
	}

	if hasElement && dominant.Count >= elementDominanceCount {
		theme, ok := elementThemes[dominant.Label]
		if !ok {
			theme = "sus cualidades asociadas"
		}
		sections = append(sections, Section{
			Heading: "Elementos",
			Text:    fmt.Sprintf("El elemento %s domina esta lectura, sugiriendo un enfoque en %s.", dominant.Label, theme),
		})
	}
	return sections
}
