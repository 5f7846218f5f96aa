// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package walker recursively enumerates regular files under a set of
// roots, honoring an ignore list of exact path-component names.
package walker

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
)

// QuarantineDirName is where the Applier parks moved duplicates: a
// sibling directory of each source file.
const QuarantineDirName = ".deduplab_duplicates"

// DefaultIgnore is the minimum ignore set every caller should include so
// that repeated runs are idempotent: the quarantine directory a prior
// apply created must never be re-scanned as ordinary content.
var DefaultIgnore = []string{QuarantineDirName}

// Walk visits every regular file reachable from roots, calling visit
// for each one with its absolute-or-as-given path. Non-existent roots
// are silently skipped. A directory (or file) whose base name exactly
// matches one of the ignore tokens is skipped entirely (for a
// directory, its whole subtree is skipped).
func Walk(ctx context.Context, roots []string, ignore []string, visit func(path string) error) error {
	ignoreSet := make(map[string]struct{}, len(ignore))
	for _, tok := range ignore {
		ignoreSet[tok] = struct{}{}
	}

	for _, root := range roots {
		if err := walkRoot(ctx, root, ignoreSet, visit); err != nil {
			return err
		}
	}
	return nil
}

func walkRoot(ctx context.Context, root string, ignoreSet map[string]struct{}, visit func(path string) error) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Non-existent roots and unreadable subtrees are skipped,
			// not fatal: the Walker never aborts a multi-root scan
			// because one root is missing or one directory is
			// unreadable.
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, skip := ignoreSet[d.Name()]; skip {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return visit(path)
	})
	if isNotExist(err) {
		return nil
	}
	return err
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
