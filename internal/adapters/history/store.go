// Package history provides a SQLite-backed store for finished readings.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/randomtoy/arcano/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	id             TEXT PRIMARY KEY,
	created_at     INTEGER NOT NULL,
	spread_key     TEXT NOT NULL,
	spread_name    TEXT NOT NULL,
	question       TEXT NOT NULL DEFAULT '',
	cards          TEXT NOT NULL,
	interpretation TEXT NOT NULL,
	narrative      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS readings_created_at ON readings (created_at DESC);
`

// Store persists reading records in SQLite. Cards are kept as a JSON column.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts one record. The record must carry an id.
func (s *Store) Save(ctx context.Context, rec domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("record id is required")
	}
	cards, err := json.Marshal(rec.Cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	createdAt := rec.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO readings (
		   id, created_at, spread_key, spread_name, question, cards, interpretation, narrative
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		toMillis(createdAt),
		rec.SpreadKey,
		rec.SpreadName,
		rec.Question,
		string(cards),
		rec.Interpretation,
		rec.Narrative,
	)
	if err != nil {
		return fmt.Errorf("save reading %s: %w", rec.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, created_at, spread_key, spread_name, question, cards, interpretation, narrative FROM readings`

// List returns up to limit records, newest first. limit <= 0 returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.sqlDB.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return rec, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM readings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reading %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reading %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (domain.Record, error) {
	var (
		rec       domain.Record
		createdAt int64
		cards     string
	)
	err := sc.Scan(
		&rec.ID,
		&createdAt,
		&rec.SpreadKey,
		&rec.SpreadName,
		&rec.Question,
		&cards,
		&rec.Interpretation,
		&rec.Narrative,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, err
		}
		return domain.Record{}, fmt.Errorf("scan reading: %w", err)
	}
	if err := json.Unmarshal([]byte(cards), &rec.Cards); err != nil {
		return domain.Record{}, fmt.Errorf("decode cards of %s: %w", rec.ID, err)
	}
	rec.Timestamp = fromMillis(createdAt)
	return rec, nil
}
