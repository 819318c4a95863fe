package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"crossgrid/internal/clue"
	"crossgrid/internal/grid"
)

// Keys under which the working session is mirrored.
const (
	KeySize  = "cw_size"
	KeyGrid  = "cw_grid"
	KeyClues = "cw_clues"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SessionStore is a small key-value table in SQLite that keeps the working
// grid between runs.
type SessionStore struct {
	db  *sql.DB
	log *slog.Logger
}

// Snapshot is the part of the editor state that survives a restart.
// Clues keeps orphaned entries.
type Snapshot struct {
	Size  grid.Size
	Grid  grid.Grid
	Clues clue.Map
}

// OpenSession opens (creating if needed) the database at path.
func OpenSession(ctx context.Context, path string, log *slog.Logger) (*SessionStore, error) {
	if log == nil {
		log = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating session directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session store %s: %w", path, err)
	}
	// One connection keeps writes serialized and makes :memory: usable.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing session store: %w", err)
	}
	return &SessionStore{db: db, log: log}, nil
}

// Close releases the database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Save writes all three session keys in one transaction.
func (s *SessionStore) Save(ctx context.Context, snap Snapshot) error {
	values := map[string]any{
		KeySize:  snap.Size,
		KeyGrid:  snap.Grid,
		KeyClues: snap.Clues,
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	defer tx.Rollback()

	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(data)); err != nil {
			return fmt.Errorf("writing %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Restore reads the last saved snapshot. It reports false when nothing
// usable is stored; a damaged snapshot is logged and ignored.
func (s *SessionStore) Restore(ctx context.Context) (Snapshot, bool, error) {
	var (
		snap  Snapshot
		size  grid.Size
		found = true
	)
	targets := []struct {
		key string
		dst any
	}{
		{KeySize, &size},
		{KeyGrid, &snap.Grid},
		{KeyClues, &snap.Clues},
	}
	for _, t := range targets {
		raw, ok, err := s.Get(ctx, t.key)
		if err != nil {
			return Snapshot{}, false, err
		}
		if !ok {
			found = false
			break
		}
		if err := json.Unmarshal([]byte(raw), t.dst); err != nil {
			s.log.Warn("discarding damaged session value", "key", t.key, "err", err)
			return Snapshot{}, false, nil
		}
	}
	if !found {
		return Snapshot{}, false, nil
	}

	sz, g, _, err := Data{Size: &size, Grid: snap.Grid}.Document()
	if err != nil {
		s.log.Warn("discarding invalid session", "err", err)
		return Snapshot{}, false, nil
	}
	snap.Size, snap.Grid = sz, g
	if snap.Clues == nil {
		snap.Clues = clue.Map{}
	}
	return snap, true, nil
}
