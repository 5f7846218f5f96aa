// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"path/filepath"
	"strings"
)

// parentDir returns the directory that must exist before a file at path
// can be created.
func parentDir(path string) string {
	return filepath.Dir(path)
}

// stringSlice collects repeated occurrences of a flag (e.g. `--root a
// --root b`) into an ordered slice.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}
