package ports

import "context"

// NarrateInput holds everything the LLM needs to elaborate a reading.
type NarrateInput struct {
	Spread         string
	Question       string
	Lang           string
	Cards          []CardInput
	Interpretation string
}

// CardInput is a simplified card representation for the LLM prompt.
type CardInput struct {
	Name        string
	Index       int
	Position    string
	Orientation string
	Keywords    []string
	Meaning     string
}

// NarrateOutput is the structured narrative returned by the LLM.
type NarrateOutput struct {
	Text       string `json:"text"`
	Disclaimer string `json:"disclaimer"`
	Model      string `json:"-"`
}

// Narrator rewrites a rule-based interpretation as free prose via an LLM.
type Narrator interface {
	Narrate(ctx context.Context, in NarrateInput) (NarrateOutput, error)
}
