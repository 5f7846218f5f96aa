// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package apply executes a move plan with a three-phase commit per row:
// copy to temp, fsync, verify by rehash, atomic rename, source unlink.
// No failure mode deletes a source before a verified copy exists at its
// destination.
package apply

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/allaunthefox/DeDupeLab/internal/checkpoint"
	"github.com/allaunthefox/DeDupeLab/internal/durable"
	"github.com/allaunthefox/DeDupeLab/internal/fingerprint"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/pathutil"
	"github.com/allaunthefox/DeDupeLab/internal/plan"
)

// DefaultCheckpointFlushEvery is how many successful moves pass between
// periodic checkpoint flushes.
const DefaultCheckpointFlushEvery = 50

// Options configures a Run.
type Options struct {
	Force                bool
	CheckpointPath       string
	CheckpointFlushEvery int // 0 = DefaultCheckpointFlushEvery
}

// Stats are the run-level counters the CLI uses to pick an exit code.
type Stats struct {
	Attempted  int
	Succeeded  int
	Skipped    int
	Errors     int
	BytesMoved int64
}

// Run executes every row in rows with op=move and status=planned,
// ignoring all others. In dry-run (Options.Force == false) no filesystem
// mutation happens; a checkpoint with an empty moves list is still
// written unconditionally.
func Run(ctx context.Context, rows []plan.Row, opts Options) (Stats, error) {
	logger := log.FromContext(ctx, "apply")
	flushEvery := opts.CheckpointFlushEvery
	if flushEvery <= 0 {
		flushEvery = DefaultCheckpointFlushEvery
	}

	var (
		stats Stats
		moves []checkpoint.Move
	)

	flush := func(dryRun bool) {
		cp := checkpoint.Checkpoint{
			Timestamp: float64(time.Now().Unix()),
			DryRun:    dryRun,
			Statistics: checkpoint.Statistics{
				Attempted:  stats.Attempted,
				Succeeded:  stats.Succeeded,
				Skipped:    stats.Skipped,
				Errors:     stats.Errors,
				BytesMoved: stats.BytesMoved,
			},
			Moves: moves,
		}
		if err := checkpoint.Write(opts.CheckpointPath, cp); err != nil {
			logger.Error().Err(err).Msg("apply: failed writing checkpoint")
		}
	}

	for _, row := range rows {
		if row.Op != "move" || row.Status != plan.StatusPlanned {
			continue
		}

		select {
		case <-ctx.Done():
			flush(!opts.Force)
			return stats, ctx.Err()
		default:
		}

		stats.Attempted++

		if !opts.Force {
			continue
		}

		mv, err := applyOne(&logger, row.SrcPath, row.DstPath)
		switch {
		case err == nil && mv == nil:
			stats.Skipped++
		case err == nil:
			stats.Succeeded++
			stats.BytesMoved += mv.Size
			moves = append(moves, *mv)
			if flushEvery > 0 && stats.Succeeded%flushEvery == 0 {
				flush(false)
			}
		default:
			stats.Errors++
			logger.Error().Err(err).Str("src", row.SrcPath).Str("dst", row.DstPath).Msg("apply: row failed")
		}
	}

	flush(!opts.Force)
	return stats, nil
}

// preVerifyHook exists so tests can corrupt the staged copy between
// fsync and the verify rehash; production never sets it.
var preVerifyHook func(tmpPath string)

// applyOne executes the three-phase commit for a single row. A nil
// Move with a nil error means the row was skipped (missing source).
func applyOne(logger *zerolog.Logger, src, dst string) (*checkpoint.Move, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil, nil
	}

	// A hand-edited plan could target the source itself; moving a file
	// onto its own path would delete it.
	if src == dst {
		return nil, &WriteError{Path: dst, Err: errors.New("destination equals source")}
	}

	dstDir := filepath.Dir(dst)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, &WriteError{Path: dstDir, Err: err}
	}
	if _, err := os.Lstat(dst); err == nil {
		dst = pathutil.EnsureUnique(dst)
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return nil, &WriteError{Path: src, Err: err}
	}
	size := srcInfo.Size()

	if sameDevice(filepath.Dir(src), dstDir) {
		if err := os.Rename(src, dst); err != nil {
			return nil, &RenameError{Src: src, Dst: dst, Err: err}
		}
		return &checkpoint.Move{Src: src, Dst: dst, Size: size, Timestamp: float64(time.Now().Unix())}, nil
	}

	return crossDeviceCommit(logger, src, dst, size)
}

func crossDeviceCommit(logger *zerolog.Logger, src, dst string, size int64) (*checkpoint.Move, error) {
	pf, err := durable.PendingFile(dst, 0o644)
	if err != nil {
		return nil, &WriteError{Path: dst, Err: err}
	}
	cleanup := func() { _ = pf.Cleanup() }

	in, err := os.Open(src)
	if err != nil {
		cleanup()
		return nil, &WriteError{Path: src, Err: err}
	}

	buf := make([]byte, fingerprint.ChunkSize)
	if _, err := io.CopyBuffer(pf, in, buf); err != nil {
		_ = in.Close()
		cleanup()
		return nil, &WriteError{Path: dst, Err: err}
	}
	if err := in.Close(); err != nil {
		cleanup()
		return nil, &WriteError{Path: src, Err: err}
	}

	if err := pf.Sync(); err != nil {
		cleanup()
		return nil, &DurabilityError{Path: dst, Err: err}
	}

	if preVerifyHook != nil {
		preVerifyHook(pf.Name())
	}

	srcHash, err := fingerprint.File(src)
	if err != nil {
		cleanup()
		return nil, &WriteError{Path: src, Err: err}
	}
	copyHash, err := fingerprint.File(pf.Name())
	if err != nil {
		cleanup()
		return nil, &WriteError{Path: dst, Err: err}
	}
	if srcHash != copyHash {
		cleanup()
		return nil, &HashMismatchError{Src: src, Dst: dst, SrcHash: srcHash, CopyHash: copyHash}
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		cleanup()
		return nil, &RenameError{Src: src, Dst: dst, Err: err}
	}

	ts := float64(time.Now().Unix())
	if err := os.Remove(src); err != nil {
		// Destination is already safe: warn, don't fail the row.
		logger.Warn().Err(&SourceUnlinkWarning{Path: src, Err: err}).Msg("apply: source unlink failed after commit")
	}

	return &checkpoint.Move{Src: src, Dst: dst, Size: size, Timestamp: ts}, nil
}
