// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package folderstats

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allaunthefox/DeDupeLab/internal/record"
)

func pinClock(t *testing.T) {
	t.Helper()
	old := nowFunc
	nowFunc = func() time.Time { return time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = old })
}

func TestExport_WritesSchemaV4ByDefault(t *testing.T) {
	pinClock(t)
	root := t.TempDir()
	sub := filepath.Join(root, "photos")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	records := []record.File{
		{Path: filepath.Join(sub, "vacation_trip.jpg"), Size: 100, MTime: 1000, SHA256: "a", MIME: "image/jpeg"},
		{Path: filepath.Join(sub, "notes.txt"), Size: 50, MTime: 2000, SHA256: "b", MIME: "text/plain"},
	}

	exp := &FileExporter{Root: root}
	require.NoError(t, exp.Export(context.Background(), sub, records))

	data, err := os.ReadFile(filepath.Join(sub, "meta.json"))
	require.NoError(t, err)

	var meta Meta
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "deduplab_meta_v4", meta.Spec)
	assert.Equal(t, "photos", meta.FolderRel)
	require.NotNil(t, meta.ParentRel)
	assert.Equal(t, ".", *meta.ParentRel)
	assert.Equal(t, 2, meta.Summary.FilesTotal)
	assert.Equal(t, int64(150), meta.Summary.BytesTotal)
	assert.Contains(t, meta.Summary.Topics, "travel")
	assert.Equal(t, "2026-07-29T12:00:00Z", meta.GeneratedAt)
	require.Len(t, meta.Entries, 2)
}

func TestExport_LegacyV3Flag(t *testing.T) {
	root := t.TempDir()
	exp := &FileExporter{Root: root, LegacyV3: true}
	require.NoError(t, exp.Export(context.Background(), root, nil))

	data, err := os.ReadFile(filepath.Join(root, "meta.json"))
	require.NoError(t, err)
	var meta Meta
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "deduplab_meta_v3", meta.Spec)
	assert.Equal(t, ".", meta.FolderRel)
	assert.Nil(t, meta.ParentRel)
}

func TestExtractKeywords_FiltersShortAndNonAlphaTokens(t *testing.T) {
	got := extractKeywords("2026_invoice-final_v2.pdf")
	assert.Contains(t, got, "invoice")
	assert.Contains(t, got, "final")
	assert.NotContains(t, got, "v2")
	assert.NotContains(t, got, "2026")
}

func TestExport_CancelledContextReturnsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := &FileExporter{Root: t.TempDir()}
	err := exp.Export(ctx, t.TempDir(), nil)
	assert.Error(t, err)
}
