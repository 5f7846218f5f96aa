// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package store is the embedded, single-file indexed record store.
// It is backed by modernc.org/sqlite (pure Go, no cgo) opened in WAL
// mode, and owns FileRecords exclusively: no other component mutates
// them in place.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/allaunthefox/DeDupeLab/internal/contextclass"
	"github.com/allaunthefox/DeDupeLab/internal/record"
)

// Config captures the operational parameters for opening a Store.
type Config struct {
	BusyTimeout    time.Duration
	AcquireTimeout time.Duration
	MaxOpenConns   int
}

// DefaultConfig mirrors the durability posture used throughout this
// codebase: WAL journaling, NORMAL synchronous mode, and a busy_timeout
// long enough to ride out a concurrent reader from another process.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:    5 * time.Second,
		AcquireTimeout: 30 * time.Second,
		MaxOpenConns:   1, // single-writer discipline: the orchestrator is the only writer
	}
}

// Store wraps a *sql.DB for the files/runs/schema_version tables.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite file at path, applies
// the mandatory PRAGMAs, and runs any pending schema migrations.
func Open(ctx context.Context, path string, cfg Config) (*Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path, cfg.BusyTimeout.Milliseconds(),
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open failed: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(time.Hour)

	acquireCtx, cancel := context.WithTimeout(ctx, cfg.AcquireTimeout)
	defer cancel()
	if err := db.PingContext(acquireCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping failed: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertFiles writes a batch of records in a single transaction. It is
// the only write path into the files table, and is meant to be called
// exactly once per indexing run, by the sole writer (the orchestrator).
func (s *Store) UpsertFiles(ctx context.Context, records []record.File) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin upsert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO files(path, size, mtime, sha256, mime, context_tag)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size=excluded.size,
			mtime=excluded.mtime,
			sha256=excluded.sha256,
			mime=excluded.mime,
			context_tag=excluded.context_tag
	`)
	if err != nil {
		return fmt.Errorf("store: prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Path, rec.Size, rec.MTime, rec.SHA256, rec.MIME, string(rec.ContextTag)); err != nil {
			return fmt.Errorf("store: upsert %s: %w", rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit upsert tx: %w", err)
	}
	return nil
}

// GetAll returns every FileRecord currently in the store.
func (s *Store) GetAll(ctx context.Context) ([]record.File, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, size, mtime, sha256, mime, context_tag FROM files`)
	if err != nil {
		return nil, fmt.Errorf("store: get all: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []record.File
	for rows.Next() {
		var rec record.File
		var ctxTag string
		if err := rows.Scan(&rec.Path, &rec.Size, &rec.MTime, &rec.SHA256, &rec.MIME, &ctxTag); err != nil {
			return nil, fmt.Errorf("store: scan file row: %w", err)
		}
		rec.ContextTag = contextclass.Tag(ctxTag)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetDuplicates returns every DuplicateGroup — files sharing both
// sha256 and context_tag, grouped with len(paths) >= 2. The path list
// is derived from SQLite's GROUP_CONCAT(path, '|'), split on '|' since
// POSIX paths may legally contain commas.
func (s *Store) GetDuplicates(ctx context.Context) ([]record.DuplicateGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sha256, context_tag, GROUP_CONCAT(path, '|')
		FROM files
		GROUP BY sha256, context_tag
		HAVING COUNT(*) > 1
	`)
	if err != nil {
		return nil, fmt.Errorf("store: get duplicates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []record.DuplicateGroup
	for rows.Next() {
		var sha, ctxTag, pathsJoined string
		if err := rows.Scan(&sha, &ctxTag, &pathsJoined); err != nil {
			return nil, fmt.Errorf("store: scan duplicate row: %w", err)
		}
		groups = append(groups, record.DuplicateGroup{
			SHA256:     sha,
			ContextTag: contextclass.Tag(ctxTag),
			Paths:      splitPipe(pathsJoined),
		})
	}
	return groups, rows.Err()
}

// RecordRun appends one entry to the run ledger: the run ID, timestamp,
// and a short human note describing the operation.
func (s *Store) RecordRun(ctx context.Context, runID string, ts time.Time, note string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(id, ts, note) VALUES(?, ?, ?)`,
		runID, ts.Unix(), note,
	)
	if err != nil {
		return fmt.Errorf("store: record run: %w", err)
	}
	return nil
}

func splitPipe(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
