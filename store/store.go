// Package store is the shared SQLite-backed state the panel's components
// communicate through: the latest page snapshot, user preferences, and
// the refresh-event log.
//
// The caller must blank-import an SQLite driver before calling Open:
//
//	import _ "modernc.org/sqlite"
//	st, err := store.Open("panel.db")
//
// In tests:
//
//	st := store.OpenMemory(t)
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hazyhaar/pricepanel/market"
	"github.com/hazyhaar/pricepanel/panel"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS refresh_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	seq         INTEGER NOT NULL,
	page_key    TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	offers      INTEGER NOT NULL,
	from_cache  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_refresh_events_page_key
	ON refresh_events(page_key, id);
`

type config struct {
	driver      string
	busyTimeout int
	mkdirAll    bool
	logger      *slog.Logger
}

func defaults() config {
	return config{
		driver:      "sqlite",
		busyTimeout: 10_000,
		logger:      slog.Default(),
	}
}

// Option customises Open behaviour.
type Option func(*config)

// WithDriver sets the database/sql driver name. Default: "sqlite".
func WithDriver(name string) Option { return func(c *config) { c.driver = name } }

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithLogger sets the logger for best-effort write failures.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// Store wraps the panel database.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens the panel database at path with production-safe pragmas and
// the schema applied.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open(cfg.driver, path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: exec schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &Store{db: db, log: cfg.logger}, nil
}

// OpenMemory opens an in-memory store for testing. It sets MaxOpenConns(1)
// so all queries hit the same in-memory database, and registers t.Cleanup
// to close it.
func OpenMemory(t testing.TB, opts ...Option) *Store {
	t.Helper()
	st, err := Open(":memory:", opts...)
	if err != nil {
		t.Fatalf("store.OpenMemory: %v", err)
	}
	st.db.SetMaxOpenConns(1)
	t.Cleanup(func() { st.Close() })
	return st
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

const lastSnapshotKey = "last_snapshot"

// SaveSnapshot stores the latest page snapshot, replacing the previous one.
func (s *Store) SaveSnapshot(ctx context.Context, snap market.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: marshal snapshot: %w", err)
	}
	return s.setKV(ctx, lastSnapshotKey, string(data))
}

// LastSnapshot returns the most recently saved snapshot, if any.
func (s *Store) LastSnapshot(ctx context.Context) (market.Snapshot, bool, error) {
	v, ok, err := s.getKV(ctx, lastSnapshotKey)
	if err != nil || !ok {
		return market.Snapshot{}, false, err
	}
	var snap market.Snapshot
	if err := json.Unmarshal([]byte(v), &snap); err != nil {
		return market.Snapshot{}, false, fmt.Errorf("store: unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}

// SetPref stores a user preference.
func (s *Store) SetPref(ctx context.Context, key, value string) error {
	return s.setKV(ctx, "pref:"+key, value)
}

// Pref returns a user preference, if set.
func (s *Store) Pref(ctx context.Context, key string) (string, bool, error) {
	return s.getKV(ctx, "pref:"+key)
}

// LogRefresh appends one refresh-cycle event. Failures are logged and
// swallowed: the event log must never block or fail a refresh.
func (s *Store) LogRefresh(ctx context.Context, ev panel.RefreshEvent) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_events (seq, page_key, outcome, offers, from_cache, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Seq, ev.PageKey, ev.Outcome, ev.Offers, boolInt(ev.FromCache),
		ev.Duration.Milliseconds())
	if err != nil {
		s.log.Debug("store: refresh event insert failed", "error", err)
	}
}

// RecentRefreshes returns up to limit refresh events, newest first.
func (s *Store) RecentRefreshes(ctx context.Context, limit int) ([]panel.RefreshEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, page_key, outcome, offers, from_cache, duration_ms
		FROM refresh_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query refresh events: %w", err)
	}
	defer rows.Close()

	var out []panel.RefreshEvent
	for rows.Next() {
		var ev panel.RefreshEvent
		var fromCache int
		var ms int64
		if err := rows.Scan(&ev.Seq, &ev.PageKey, &ev.Outcome, &ev.Offers,
			&fromCache, &ms); err != nil {
			return nil, fmt.Errorf("store: scan refresh event: %w", err)
		}
		ev.FromCache = fromCache != 0
		ev.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: refresh events: %w", err)
	}
	return out, nil
}

func (s *Store) setKV(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) getKV(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: get %s: %w", key, err)
	}
	return v, true, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
