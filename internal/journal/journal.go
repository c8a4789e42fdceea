// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a SQLite record of Query Service calls: which
// operation ran, how long it took, the outcome kind, and the logged cause.
// It never stores queries' results or prompts.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nexus/internal/query"
)

const (
	defaultLimit = 50
	queueSize    = 256
)

// Entry is one journaled call.
type Entry struct {
	ID         int64     `json:"id" yaml:"id"`
	Op         string    `json:"op" yaml:"op"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
	Outcome    string    `json:"outcome" yaml:"outcome"`
	Cause      string    `json:"cause,omitempty" yaml:"cause,omitempty"`
}

// Store manages the journal database. Calls handed to Observe are written
// by a single background writer; Close drains them.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}
}

// queued is a call waiting for the writer, or a flush marker when flushed
// is set.
type queued struct {
	call    query.Call
	flushed chan struct{}
}

// Open opens or creates the journal at path and its schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Store{
		db:     db,
		logger: logger,
		queue:  make(chan queued, queueSize),
		done:   make(chan struct{}),
	}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	go s.writer()
	return s, nil
}

// Close writes any queued calls and releases the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
	return s.db.Close()
}

func (s *Store) writer() {
	defer close(s.done)
	for q := range s.queue {
		if q.flushed != nil {
			close(q.flushed)
			continue
		}
		if err := s.Record(context.Background(), q.call); err != nil {
			s.logger.Warn("journal write failed", "op", q.call.Op, "error", err)
		}
	}
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS calls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			op TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			cause TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calls_op ON calls(op)`,
		`CREATE INDEX IF NOT EXISTS idx_calls_started_at ON calls(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one call.
func (s *Store) Record(ctx context.Context, call query.Call) error {
	outcome := "ok"
	if !call.OK() {
		outcome = call.Kind.String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (op, started_at, duration_ms, outcome, cause) VALUES (?, ?, ?, ?, ?)`,
		call.Op,
		call.Started.UTC().Format(time.RFC3339Nano),
		call.Duration.Milliseconds(),
		outcome,
		nullIfEmpty(call.Cause),
	)
	if err != nil {
		return fmt.Errorf("recording call: %w", err)
	}
	return nil
}

// Observe implements query.Observer. It queues the call and returns without
// touching the database. When the queue is full the call is dropped and
// logged; write failures are logged by the writer.
func (s *Store) Observe(_ context.Context, call query.Call) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.Warn("journal closed, dropping call", "op", call.Op)
		return
	}
	select {
	case s.queue <- queued{call: call}:
	default:
		s.logger.Warn("journal queue full, dropping call", "op", call.Op)
	}
}

// Flush waits until every call queued before it has been written.
func (s *Store) Flush(ctx context.Context) error {
	flushed := make(chan struct{})
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil
	}
	select {
	case s.queue <- queued{flushed: flushed}:
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}
	s.mu.RUnlock()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Filter narrows Recent.
type Filter struct {
	Op     string
	Failed bool
	Limit  int
}

// Recent returns the newest calls first.
func (s *Store) Recent(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	q := `SELECT id, op, started_at, duration_ms, outcome, COALESCE(cause, '') FROM calls WHERE 1=1`
	var args []any
	if f.Op != "" {
		q += ` AND op = ?`
		args = append(args, f.Op)
	}
	if f.Failed {
		q += ` AND outcome != 'ok'`
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started string
		if err := rows.Scan(&e.ID, &e.Op, &started, &e.DurationMS, &e.Outcome, &e.Cause); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			e.StartedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats summarizes outcomes per operation.
type Stats struct {
	Op       string         `json:"op" yaml:"op"`
	Total    int            `json:"total" yaml:"total"`
	Outcomes map[string]int `json:"outcomes" yaml:"outcomes"`
}

// Summary groups every journaled call by operation and outcome.
func (s *Store) Summary(ctx context.Context) ([]Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT op, outcome, COUNT(*) FROM calls GROUP BY op, outcome ORDER BY op, outcome`)
	if err != nil {
		return nil, fmt.Errorf("summarizing journal: %w", err)
	}
	defer rows.Close()

	var stats []Stats
	index := map[string]int{}
	for rows.Next() {
		var op, outcome string
		var n int
		if err := rows.Scan(&op, &outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		i, ok := index[op]
		if !ok {
			i = len(stats)
			index[op] = i
			stats = append(stats, Stats{Op: op, Outcomes: map[string]int{}})
		}
		stats[i].Total += n
		stats[i].Outcomes[outcome] = n
	}
	return stats, rows.Err()
}

// ExportYAML writes entries as YAML to w.
func ExportYAML(entries []Entry, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes entries as indented JSON to w.
func ExportJSON(entries []Entry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
