// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allaunthefox/DeDupeLab/internal/record"
)

func sampleRecords() []record.File {
	return []record.File{
		{Path: "/a.jpg", Size: 10, MIME: "image/jpeg"},
		{Path: "/b.jpg", Size: 20, MIME: "image/jpeg"},
		{Path: "/c.txt", Size: 5, MIME: "text/plain"},
	}
}

func TestSum(t *testing.T) {
	f := New(sampleRecords())
	assert.Equal(t, int64(35), f.Sum())
}

func TestValueCounts(t *testing.T) {
	f := New(sampleRecords())
	counts := f.ValueCounts(func(r record.File) string { return r.MIME })
	assert.Equal(t, 2, counts["image/jpeg"])
	assert.Equal(t, 1, counts["text/plain"])
}

func TestGroupBy(t *testing.T) {
	f := New(sampleRecords())
	groups := f.GroupBy(func(r record.File) string { return r.MIME })
	assert.Len(t, groups["image/jpeg"], 2)
	assert.Len(t, groups["text/plain"], 1)
}

func TestEmptyFrame(t *testing.T) {
	f := New(nil)
	assert.Equal(t, int64(0), f.Sum())
	assert.Empty(t, f.ValueCounts(func(r record.File) string { return r.MIME }))
}
