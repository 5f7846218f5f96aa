// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package aggregate computes simple reductions (size sums, category
// counts, group-by) over in-memory FileRecords behind one small
// interface with a single slice-backed implementation.
package aggregate

import "github.com/allaunthefox/DeDupeLab/internal/record"

// Frame computes simple aggregates over a fixed batch of FileRecords.
type Frame interface {
	// Sum returns the sum of Size across all records.
	Sum() int64
	// ValueCounts returns, for each distinct value returned by key,
	// the number of records sharing that value.
	ValueCounts(key func(record.File) string) map[string]int
	// GroupBy partitions records by the value returned by key.
	GroupBy(key func(record.File) string) map[string][]record.File
}

type sliceFrame struct {
	records []record.File
}

// New wraps records in a Frame.
func New(records []record.File) Frame {
	return sliceFrame{records: records}
}

func (f sliceFrame) Sum() int64 {
	var total int64
	for _, r := range f.records {
		total += r.Size
	}
	return total
}

func (f sliceFrame) ValueCounts(key func(record.File) string) map[string]int {
	out := make(map[string]int)
	for _, r := range f.records {
		out[key(r)]++
	}
	return out
}

func (f sliceFrame) GroupBy(key func(record.File) string) map[string][]record.File {
	out := make(map[string][]record.File)
	for _, r := range f.records {
		k := key(r)
		out[k] = append(out[k], r)
	}
	return out
}
