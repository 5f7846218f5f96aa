// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package contextclass classifies a filesystem path as archived or
// unarchived using path structure alone, never file content. Content
// that lives under an extracted archive is treated as an intentional
// duplicate of the archive itself, so it is partitioned out of the
// dedup-equivalence relation by context tag.
package contextclass

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tag is one of Archived or Unarchived.
type Tag string

const (
	Archived   Tag = "archived"
	Unarchived Tag = "unarchived"
)

// extractionMarkers are ancestor-directory-name substrings (after
// normalization + case folding) that mark an extracted-archive root.
var extractionMarkers = []string{
	"extracted", "unzipped", "unpacked", "unarchived", "decompressed", "unrar", "untar",
}

// archiveExtensions are checked both as literal suffixes (for the
// sibling-archive-file rule) and as dot-removed/underscored tokens (for
// the archive-like-folder-name rule).
var archiveExtensions = []string{
	".zip", ".7z", ".tar", ".gz", ".bz2", ".xz", ".rar",
	".tar.gz", ".tar.bz2", ".tar.xz", ".tgz", ".tbz2",
}

var fold = cases.Fold()

// foldName normalizes a path component to NFC and case-folds it, so
// classification is stable across filesystems that preserve different
// Unicode normal forms or letter casing.
func foldName(name string) string {
	return fold.String(norm.NFC.String(name))
}

// Classify returns the context tag for path, inspecting only its
// ancestor directory names (and, for rule 2, sibling files next to each
// ancestor) — never the file's own content.
func Classify(path string) Tag {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	dir := filepath.Dir(abs)
	for {
		name := filepath.Base(dir)
		if name == "" || name == "." || name == string(filepath.Separator) {
			break
		}
		folded := foldName(name)

		if matchesExtractionMarker(folded) || matchesArchiveLikeName(folded) || hasSiblingArchive(dir) {
			return Archived
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return Unarchived
}

func matchesExtractionMarker(foldedName string) bool {
	for _, marker := range extractionMarkers {
		if strings.Contains(foldedName, marker) {
			return true
		}
	}
	return false
}

// matchesArchiveLikeName implements rule 3: the ancestor's folded name
// contains an archive-extension token with the dot removed or replaced
// by an underscore (e.g. "foo_zip", "foozip").
func matchesArchiveLikeName(foldedName string) bool {
	for _, ext := range archiveExtensions {
		bare := strings.TrimPrefix(ext, ".")
		dotless := strings.ReplaceAll(bare, ".", "")
		underscored := strings.ReplaceAll(bare, ".", "_")
		if strings.Contains(foldedName, dotless) || strings.Contains(foldedName, underscored) {
			return true
		}
	}
	return false
}

// hasSiblingArchive implements rule 2: a sibling file exists whose name
// equals dir's own name with an archive extension appended.
func hasSiblingArchive(dir string) bool {
	parent := filepath.Dir(dir)
	base := filepath.Base(dir)
	for _, ext := range archiveExtensions {
		candidate := filepath.Join(parent, base+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
