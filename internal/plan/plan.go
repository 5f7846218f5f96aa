// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package plan turns resolved duplicate groups into a totally-ordered,
// collision-free CSV move plan.
package plan

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/allaunthefox/DeDupeLab/internal/durable"
	"github.com/allaunthefox/DeDupeLab/internal/group"
	"github.com/allaunthefox/DeDupeLab/internal/pathutil"
	"github.com/allaunthefox/DeDupeLab/internal/walker"
)

// Header is the fixed column order for the plan CSV.
var Header = []string{"status", "op", "src_path", "dst_path", "content_id", "reason", "rollback_key", "ts"}

// Status values a PlanRow may carry.
const (
	StatusPlanned = "planned"
	StatusApplied = "applied"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// Row is one line of the plan CSV.
type Row struct {
	Status      string
	Op          string
	SrcPath     string
	DstPath     string
	ContentID   string
	Reason      string
	RollbackKey string
	Timestamp   string
}

func (r Row) fields() []string {
	return []string{r.Status, r.Op, r.SrcPath, r.DstPath, r.ContentID, r.Reason, r.RollbackKey, r.Timestamp}
}

// nowFunc exists so tests can pin the timestamp; production always uses
// time.Now.
var nowFunc = time.Now

// Build synthesizes the ordered set of Rows for a batch of resolved
// duplicate groups. Groups are processed in the order given; callers
// wanting deterministic plans across reruns should sort groups (e.g. by
// keeper path) before calling Build.
func Build(groups []group.Resolved) []Row {
	rows := make([]Row, 0, len(groups))
	ordinal := 0
	ts := nowFunc().UTC().Format("2006-01-02T15:04:05Z")

	for _, g := range groups {
		for _, src := range g.Sources {
			dst := pathutil.EnsureUnique(pathutil.QuarantinePath(src, walker.QuarantineDirName))
			rows = append(rows, Row{
				Status:      StatusPlanned,
				Op:          "move",
				SrcPath:     src,
				DstPath:     dst,
				ContentID:   fmt.Sprintf("b3:sha256:%s:ctx:%s", g.SHA256, g.ContextTag),
				Reason:      "dedup",
				RollbackKey: fmt.Sprintf("rbk:%06d", ordinal),
				Timestamp:   ts,
			})
			ordinal++
		}
	}
	return rows
}

// ParseError wraps a malformed plan CSV.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("plan: parse %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Write renders rows as CSV (header first) and durably writes them to
// path: a temp file beside the destination, fsync, atomic rename.
func Write(path string, rows []Row) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.fields()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return durable.WriteFile(path, buf.Bytes(), 0o644)
}

// Read parses a plan CSV previously produced by Write.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("empty plan file")}
	}

	header := records[0]
	if len(header) != len(Header) {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unexpected header: %v", header)}
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("unexpected header column %d: got %q want %q", i, header[i], col)}
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(Header) {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("row has %d fields, want %d", len(rec), len(Header))}
		}
		rows = append(rows, Row{
			Status:      rec[0],
			Op:          rec[1],
			SrcPath:     rec[2],
			DstPath:     rec[3],
			ContentID:   rec[4],
			Reason:      rec[5],
			RollbackKey: rec[6],
			Timestamp:   rec[7],
		})
	}
	return rows, nil
}
