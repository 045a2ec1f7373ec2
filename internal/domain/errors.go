package domain

import "errors"

var (
	ErrUnknownSpread      = errors.New("unknown spread")
	ErrInvalidSpread      = errors.New("invalid spread definition")
	ErrInsufficientDeck   = errors.New("draw count exceeds number of cards in deck")
	ErrEntropyUnavailable = errors.New("no usable entropy source")
	ErrQuestionTooLong    = errors.New("question must be at most 500 characters")
	ErrRecordNotFound     = errors.New("reading record not found")
	ErrHistoryDisabled    = errors.New("reading history is disabled")
	ErrUpstreamLLM        = errors.New("upstream LLM failure")
	ErrInvalidLLMJSON     = errors.New("LLM returned invalid JSON after retry")
)
