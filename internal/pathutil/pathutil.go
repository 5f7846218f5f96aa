// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package pathutil holds small filesystem-path helpers shared by the
// Planner and Applier: namely the destination-uniqueness rule both
// apply at different times against the live filesystem.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureUnique returns path unchanged if nothing exists there. Otherwise
// it appends " (i)" before the extension, trying i=1,2,… until it finds
// a path that does not exist. It is idempotent: calling it again on its
// own output (with no intervening filesystem mutation) returns the same
// value, since that output does not exist either.
func EnsureUnique(path string) string {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return path
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// QuarantinePath builds the candidate quarantine destination for src:
// a sibling ".deduplab_duplicates" directory holding src's basename.
func QuarantinePath(src, quarantineDirName string) string {
	return filepath.Join(filepath.Dir(src), quarantineDirName, filepath.Base(src))
}
