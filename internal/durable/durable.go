// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package durable centralizes the "write to a temp file in the
// destination's own directory, fsync, atomic rename" discipline that the
// plan CSV, checkpoint JSON, per-folder meta, and config writers all need.
// It wraps github.com/google/renameio/v2 so every durable artifact in
// dedupelab gets the same crash-safety guarantee from one place.
package durable

import (
	"os"

	"github.com/google/renameio/v2"
)

// WriteFile writes data to path durably: the bytes land in a temp file
// next to path, are fsynced, and are only made visible at path via an
// atomic rename. A crash at any point before the rename leaves the
// previous contents of path (if any) untouched.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(perm))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pf.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = pf.Write(data); err != nil {
		return err
	}
	if err = pf.Sync(); err != nil {
		return err
	}
	if err = pf.CloseAtomicallyReplace(); err != nil {
		return err
	}
	return nil
}

// PendingFile starts a durable write without committing it yet, for
// callers (the Applier's three-phase commit) that need to hash the temp
// file's contents before deciding whether to make them visible.
func PendingFile(path string, perm os.FileMode) (*renameio.PendingFile, error) {
	return renameio.NewPendingFile(path, renameio.WithPermissions(perm))
}
