// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package rollback reverses a checkpoint's recorded moves, restoring
// quarantined files to (a possibly uniquified variant of) their
// original locations.
package rollback

import (
	"context"
	"os"
	"path/filepath"

	"github.com/allaunthefox/DeDupeLab/internal/checkpoint"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/pathutil"
)

// Result tallies the outcome of a rollback run.
type Result struct {
	Restored int
	Errors   int
}

// Run walks cp.Moves in reverse order, moving each dst back to (a
// unique variant of) its original src. One entry's failure does not
// abort the rest.
func Run(ctx context.Context, cp checkpoint.Checkpoint) Result {
	logger := log.FromContext(ctx, "rollback")
	var res Result

	for i := len(cp.Moves) - 1; i >= 0; i-- {
		mv := cp.Moves[i]

		if _, err := os.Stat(mv.Dst); os.IsNotExist(err) {
			logger.Warn().Str("dst", mv.Dst).Msg("rollback: recorded destination missing, skipping")
			res.Errors++
			continue
		}

		restoreTo := mv.Src
		if _, err := os.Lstat(restoreTo); err == nil {
			restoreTo = pathutil.EnsureUnique(restoreTo)
		}

		if err := os.MkdirAll(filepath.Dir(restoreTo), 0o755); err != nil {
			logger.Error().Err(err).Str("dst", restoreTo).Msg("rollback: mkdir failed")
			res.Errors++
			continue
		}

		if err := os.Rename(mv.Dst, restoreTo); err != nil {
			logger.Error().Err(err).Str("src", mv.Dst).Str("dst", restoreTo).Msg("rollback: move failed")
			res.Errors++
			continue
		}

		res.Restored++
	}

	return res
}
