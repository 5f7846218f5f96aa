// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package rollback

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allaunthefox/DeDupeLab/internal/checkpoint"
)

func TestRun_RestoresMovesInReverseOrder(t *testing.T) {
	dir := t.TempDir()
	quarantine := filepath.Join(dir, ".deduplab_duplicates")
	require.NoError(t, os.MkdirAll(quarantine, 0o755))

	aDst := filepath.Join(quarantine, "a.txt")
	bDst := filepath.Join(quarantine, "b.txt")
	require.NoError(t, os.WriteFile(aDst, []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(bDst, []byte("B"), 0o644))

	cp := checkpoint.Checkpoint{
		Moves: []checkpoint.Move{
			{Src: filepath.Join(dir, "a.txt"), Dst: aDst, Size: 1},
			{Src: filepath.Join(dir, "b.txt"), Dst: bDst, Size: 1},
		},
	}

	res := Run(context.Background(), cp)
	assert.Equal(t, 2, res.Restored)
	assert.Equal(t, 0, res.Errors)

	_, err := os.Stat(filepath.Join(dir, "a.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "b.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(aDst)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_UniquifiesWhenOriginalLocationOccupied(t *testing.T) {
	dir := t.TempDir()
	quarantine := filepath.Join(dir, ".deduplab_duplicates")
	require.NoError(t, os.MkdirAll(quarantine, 0o755))

	dst := filepath.Join(quarantine, "a.txt")
	require.NoError(t, os.WriteFile(dst, []byte("moved"), 0o644))

	original := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(original, []byte("new content now lives here"), 0o644))

	cp := checkpoint.Checkpoint{Moves: []checkpoint.Move{{Src: original, Dst: dst, Size: 5}}}
	res := Run(context.Background(), cp)
	assert.Equal(t, 1, res.Restored)

	_, err := os.Stat(filepath.Join(dir, "a (1).txt"))
	assert.NoError(t, err, "restore must not overwrite the occupied original path")
}

func TestRun_MissingDestinationCountsAsError(t *testing.T) {
	dir := t.TempDir()
	cp := checkpoint.Checkpoint{Moves: []checkpoint.Move{
		{Src: filepath.Join(dir, "a.txt"), Dst: filepath.Join(dir, "nope.txt"), Size: 1},
	}}

	res := Run(context.Background(), cp)
	assert.Equal(t, 0, res.Restored)
	assert.Equal(t, 1, res.Errors)
}

func TestRun_EmptyCheckpointRestoresNothing(t *testing.T) {
	res := Run(context.Background(), checkpoint.Checkpoint{})
	assert.Equal(t, 0, res.Restored)
	assert.Equal(t, 0, res.Errors)
}
