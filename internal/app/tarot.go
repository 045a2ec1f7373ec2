package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/randomtoy/arcano/internal/domain"
	"github.com/randomtoy/arcano/internal/ports"
)

// ReadingRequest is the application-level input (no transport types).
type ReadingRequest struct {
	Spread   string
	Question string
	// NoSave skips persisting the record even when history is configured.
	NoSave bool
}

// Result is the application-level output of a reading.
type Result struct {
	Reading        domain.Reading
	Interpretation domain.Interpretation
	Record         domain.Record
	Narrative      string
	Model          string
	LatencyMS      int64
}

// TarotService orchestrates draws, interpretation, narration and history.
type TarotService struct {
	catalog  ports.Catalog
	history  ports.HistoryStore
	narrator ports.Narrator
	lang     string
	rng      domain.RNG
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
	newID    func() string
}

// Option configures optional collaborators of TarotService.
type Option func(*TarotService)

// WithHistory persists every reading to store.
func WithHistory(store ports.HistoryStore) Option {
	return func(s *TarotService) { s.history = store }
}

// WithNarrator asks n to elaborate each reading in lang.
func WithNarrator(n ports.Narrator, lang string) Option {
	return func(s *TarotService) {
		s.narrator = n
		s.lang = lang
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TarotService) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *TarotService) { s.newID = fn }
}

func NewTarotService(cat ports.Catalog, rng domain.RNG, logger *slog.Logger, opts ...Option) *TarotService {
	s := &TarotService{
		catalog: cat,
		rng:     rng,
		logger:  logger,
		tracer:  otel.Tracer("github.com/randomtoy/arcano/internal/app"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TarotService) ListSpreads(ctx context.Context) ([]domain.Spread, error) {
	spreads, err := s.catalog.ListSpreads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list spreads: %w", err)
	}
	return spreads, nil
}

// PerformReading draws the named spread, interprets it and, when configured,
// narrates and stores it. A narrator failure is logged and never fails the reading.
func (s *TarotService) PerformReading(ctx context.Context, req ReadingRequest) (res Result, err error) {
	ctx, span := s.tracer.Start(ctx, "PerformReading", trace.WithAttributes(attribute.String("spread", req.Spread)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	spread, err := s.catalog.GetSpread(ctx, req.Spread)
	if err != nil {
		return Result{}, fmt.Errorf("get spread: %w", err)
	}
	deck, err := s.catalog.GetDeck(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("get deck: %w", err)
	}

	reading, err := domain.NewReading(deck, spread, req.Question, s.rng)
	if err != nil {
		return Result{}, fmt.Errorf("new reading: %w", err)
	}
	interp := s.Interpret(reading)

	rec := domain.ToRecord(reading, interp.Text(), s.now())
	rec.ID = s.newID()
	res = Result{
		Reading:        reading,
		Interpretation: interp,
	}

	if s.narrator != nil {
		start := time.Now()
		out, nerr := s.narrator.Narrate(ctx, toNarrateInput(reading, interp, s.lang))
		res.LatencyMS = time.Since(start).Milliseconds()
		if nerr != nil {
			s.logger.WarnContext(ctx, "narrator failed, returning rule-based reading", "spread", spread.Key, "error", nerr)
		} else {
			res.Narrative = out.Text
			res.Model = out.Model
			rec.Narrative = out.Text
		}
	}
	res.Record = rec

	if s.history != nil && !req.NoSave {
		if err := s.history.Save(ctx, rec); err != nil {
			return Result{}, fmt.Errorf("save reading: %w", err)
		}
	}

	span.SetAttributes(
		attribute.Int("cards", len(reading.Cards)),
		attribute.Int("reversed", reading.ReversedCount()),
	)
	s.logger.DebugContext(ctx, "reading performed", "id", rec.ID, "spread", spread.Key, "cards", len(reading.Cards))
	return res, nil
}

// Interpret renders the rule-based interpretation of an existing reading.
func (s *TarotService) Interpret(r domain.Reading) domain.Interpretation {
	return domain.Interpret(r)
}

// History returns up to limit stored readings, newest first.
func (s *TarotService) History(ctx context.Context, limit int) ([]domain.Record, error) {
	if s.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	recs, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return recs, nil
}

func (s *TarotService) GetRecord(ctx context.Context, id string) (domain.Record, error) {
	if s.history == nil {
		return domain.Record{}, domain.ErrHistoryDisabled
	}
	rec, err := s.history.Get(ctx, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

func (s *TarotService) DeleteRecord(ctx context.Context, id string) error {
	if s.history == nil {
		return domain.ErrHistoryDisabled
	}
	if err := s.history.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func toNarrateInput(r domain.Reading, interp domain.Interpretation, lang string) ports.NarrateInput {
	cards := make([]ports.CardInput, len(r.Cards))
	for i, c := range r.Cards {
		cards[i] = ports.CardInput{
			Name:        c.Name,
			Index:       c.Index,
			Position:    c.Position,
			Orientation: string(c.Orientation),
			Keywords:    c.Keywords,
			Meaning:     c.Meaning(c.Orientation),
		}
	}
	return ports.NarrateInput{
		Spread:         r.Spread.Name,
		Question:       r.Question,
		Lang:           lang,
		Cards:          cards,
		Interpretation: interp.Text(),
	}
}
