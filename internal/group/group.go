// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package group extracts duplicate groups and picks the deterministic
// keeper for each: the file the Planner never moves.
package group

import (
	"context"
	"sort"

	"github.com/allaunthefox/DeDupeLab/internal/contextclass"
	"github.com/allaunthefox/DeDupeLab/internal/record"
)

// Source abstracts the Store method this package depends on, so callers
// can test grouping logic against an in-memory fake instead of a real
// SQLite file.
type Source interface {
	GetDuplicates(ctx context.Context) ([]record.DuplicateGroup, error)
}

// Resolved is a DuplicateGroup with its keeper split out from the
// sources still to be moved. Paths within Sources are lexicographically
// ascending, matching the Planner's row-emission order.
type Resolved struct {
	SHA256     string
	ContextTag contextclass.Tag
	Keeper     string
	Sources    []string
}

// Run loads every DuplicateGroup from src and resolves each one's
// keeper. The result is sorted by Keeper path so that, for an unchanged
// Store, repeated calls yield the same group order regardless of the
// Source's own (unspecified) row order — the Planner relies on this for
// plan determinism.
func Run(ctx context.Context, src Source) ([]Resolved, error) {
	groups, err := src.GetDuplicates(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Resolved, 0, len(groups))
	for _, g := range groups {
		out = append(out, Resolve(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keeper < out[j].Keeper })
	return out, nil
}

// Resolve sorts a DuplicateGroup's paths and splits off the keeper: the
// lexicographic minimum.
func Resolve(g record.DuplicateGroup) Resolved {
	paths := append([]string(nil), g.Paths...)
	sort.Strings(paths)

	var keeper string
	var sources []string
	if len(paths) > 0 {
		keeper = paths[0]
		sources = paths[1:]
	}

	return Resolved{
		SHA256:     g.SHA256,
		ContextTag: g.ContextTag,
		Keeper:     keeper,
		Sources:    sources,
	}
}
