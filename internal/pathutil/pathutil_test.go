// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUnique_ReturnsUnchangedWhenFree(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "foo.txt")
	assert.Equal(t, p, EnsureUnique(p))
}

func TestEnsureUnique_AppendsOrdinalOnCollision(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "foo.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	got := EnsureUnique(p)
	assert.Equal(t, filepath.Join(dir, "foo (1).txt"), got)
}

func TestEnsureUnique_SkipsMultipleCollisions(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "foo.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo (1).txt"), []byte("x"), 0o644))

	got := EnsureUnique(p)
	assert.Equal(t, filepath.Join(dir, "foo (2).txt"), got)
}

func TestEnsureUnique_IsIdempotentWithoutMutation(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "foo.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	once := EnsureUnique(p)
	twice := EnsureUnique(once)
	assert.Equal(t, once, twice)
}

func TestQuarantinePath(t *testing.T) {
	got := QuarantinePath("/data/sub/foo.txt", ".deduplab_duplicates")
	assert.Equal(t, "/data/sub/.deduplab_duplicates/foo.txt", got)
}
