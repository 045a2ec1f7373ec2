package ports

import (
	"context"

	"github.com/randomtoy/arcano/internal/domain"
)

// Catalog provides the deck and the spread definitions.
type Catalog interface {
	GetDeck(ctx context.Context) (domain.Deck, error)
	GetSpread(ctx context.Context, key string) (domain.Spread, error)
	ListSpreads(ctx context.Context) ([]domain.Spread, error)
}

// HistoryStore persists finished readings.
type HistoryStore interface {
	Save(ctx context.Context, rec domain.Record) error
	// List returns up to limit records, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.Record, error)
	Get(ctx context.Context, id string) (domain.Record, error)
	Delete(ctx context.Context, id string) error
}
