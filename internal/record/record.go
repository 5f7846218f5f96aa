// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package record defines the data types shared across the indexing,
// storage, grouping, and planning stages of the dedup pipeline.
package record

import "github.com/allaunthefox/DeDupeLab/internal/contextclass"

// File is one row of the Store: the durable fact "this path had this
// content, this size, and this context the last time it was indexed."
// It is created or replaced wholesale by the Indexer; no other
// component mutates it in place.
type File struct {
	Path       string
	Size       int64
	MTime      int64 // unix seconds
	SHA256     string
	MIME       string
	ContextTag contextclass.Tag
}

// DuplicateGroup is a derived, never-persisted view: every member shares
// both SHA256 and ContextTag. Two files with identical bytes but
// differing context tags never appear in the same group.
type DuplicateGroup struct {
	SHA256     string
	ContextTag contextclass.Tag
	Paths      []string
}
