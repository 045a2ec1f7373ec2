package http

import (
	"time"

	"github.com/randomtoy/arcano/internal/domain"
)

// CreateReadingRequest is the JSON body of POST /v1/readings.
type CreateReadingRequest struct {
	Spread   string `json:"spread"`
	Question string `json:"question"`
}

type SpreadResponse struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Strategy    domain.Strategy `json:"strategy"`
	Positions   []string        `json:"positions"`
}

type SpreadListResponse struct {
	Spreads []SpreadResponse `json:"spreads"`
}

// ReadingResponse is the JSON shape returned by POST /v1/readings.
type ReadingResponse struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Spread         SpreadRef          `json:"spread"`
	Question       string             `json:"question,omitempty"`
	Cards          []CardResponse     `json:"cards"`
	Interpretation InterpretationResp `json:"interpretation"`
	Narrative      string             `json:"narrative,omitempty"`
	Meta           MetaResp           `json:"meta"`
}

type SpreadRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type CardResponse struct {
	Index       int                `json:"index"`
	Position    string             `json:"position"`
	Name        string             `json:"name"`
	Number      int                `json:"number"`
	Arcana      domain.Arcana      `json:"arcana"`
	Suit        string             `json:"suit,omitempty"`
	Orientation domain.Orientation `json:"orientation"`
	Meaning     string             `json:"meaning"`
	Keywords    []string           `json:"keywords"`
	Element     string             `json:"element,omitempty"`
}

type InterpretationResp struct {
	Title    string           `json:"title"`
	Text     string           `json:"text"`
	Sections []domain.Section `json:"sections"`
}

type MetaResp struct {
	Model     string `json:"model,omitempty"`
	RequestID string `json:"request_id"`
	LatencyMS int64  `json:"latency_ms"`
}

type HistoryResponse struct {
	Readings []domain.Record `json:"readings"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
