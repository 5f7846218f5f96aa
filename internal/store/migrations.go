// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// baseSchema is schema version 0: the original shape of the files
// table, plus the runs ledger table. It is applied unconditionally on
// every Open (CREATE TABLE IF NOT EXISTS is a no-op on an existing
// database), before any version-numbered migration runs.
const baseSchema = `
CREATE TABLE IF NOT EXISTS files(
	path  TEXT PRIMARY KEY,
	size  INTEGER NOT NULL,
	mtime INTEGER NOT NULL,
	sha256 TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sha ON files(sha256);
CREATE TABLE IF NOT EXISTS runs(
	id   TEXT PRIMARY KEY,
	ts   INTEGER NOT NULL,
	note TEXT
);
`

// migration is one version-numbered schema change. Migrations may only
// add columns, add indexes, or add tables — never rewrite existing rows
// destructively.
type migration struct {
	version     int
	description string
	stmt        string
}

// migrations is kept in ascending version order. Versions >= the one
// that creates schema_version (v4) record themselves; earlier versions
// are applied but not individually recorded, so a fresh database ends
// up with exactly one schema_version row (v4) after all four run.
var migrations = []migration{
	{
		version:     1,
		description: "add mime column",
		stmt:        `ALTER TABLE files ADD COLUMN mime TEXT DEFAULT 'application/octet-stream'`,
	},
	{
		version:     2,
		description: "add context_tag column",
		stmt:        `ALTER TABLE files ADD COLUMN context_tag TEXT DEFAULT 'unarchived'`,
	},
	{
		version:     3,
		description: "add composite hash+context index",
		stmt:        `CREATE INDEX IF NOT EXISTS idx_files_hash_ctx ON files (sha256, context_tag)`,
	},
	{
		version:     4,
		description: "add schema_version tracking table",
		stmt: `CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL,
			description TEXT
		)`,
	},
}

// MigrationError wraps a failed schema migration. The store is left at
// its prior version; callers must treat this as fatal.
type MigrationError struct {
	Version int
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("store: migration v%d failed: %v", e.Version, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, baseSchema); err != nil {
		return fmt.Errorf("store: base schema: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("store: read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return &MigrationError{Version: m.version, Err: err}
		}
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.stmt); err != nil {
		return err
	}

	// schema_version itself is only created by migration 4; it cannot
	// record migrations before it exists.
	if m.version >= 4 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_version(version, applied_at, description) VALUES (?, ?, ?)`,
			m.version, time.Now().Unix(), m.description,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		// schema_version doesn't exist yet: this is a fresh or pre-v4 database.
		return 0, nil
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
