// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package checkpoint is the durable manifest of a completed (or
// interrupted) apply run: the Applier writes it, Rollback and Verifier
// both read it, and neither depends on the other.
package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/allaunthefox/DeDupeLab/internal/durable"
)

// Move is one recorded file relocation.
type Move struct {
	Src       string  `json:"src"`
	Dst       string  `json:"dst"`
	Size      int64   `json:"size"`
	Timestamp float64 `json:"timestamp"`
}

// Statistics mirrors the Applier's run-level counters.
type Statistics struct {
	Attempted  int   `json:"attempted"`
	Succeeded  int   `json:"succeeded"`
	Skipped    int   `json:"skipped"`
	Errors     int   `json:"errors"`
	BytesMoved int64 `json:"bytes_moved"`
}

// Checkpoint is the full manifest written after an apply run.
type Checkpoint struct {
	Timestamp  float64    `json:"timestamp"`
	DryRun     bool       `json:"dry_run"`
	Statistics Statistics `json:"statistics"`
	Moves      []Move     `json:"moves"`
}

// Error wraps a checkpoint that could not be read or parsed.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("checkpoint: %s: %v", e.Path, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Write renders c as pretty-printed JSON and writes it durably to path.
func Write(path string, c Checkpoint) error {
	if c.Moves == nil {
		c.Moves = []Move{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return &Error{Path: path, Err: err}
	}
	return durable.WriteFile(path, buf.Bytes(), 0o644)
}

// Read parses a checkpoint JSON file previously produced by Write.
func Read(path string) (Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Checkpoint{}, &Error{Path: path, Err: err}
	}

	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return Checkpoint{}, &Error{Path: path, Err: err}
	}
	return c, nil
}
