// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_NoArgsIsFatal(t *testing.T) {
	assert.Equal(t, exitFatal, run(nil))
}

func TestRun_UnknownSubcommandIsFatal(t *testing.T) {
	assert.Equal(t, exitFatal, run([]string{"frobnicate"}))
}

func TestRun_ScanWithoutRootIsFatal(t *testing.T) {
	assert.Equal(t, exitFatal, run([]string{"scan"}))
}

func TestRun_ScanPlanApplyRollbackVerifyEndToEnd(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("same"), 0o644))

	cfgPath := filepath.Join(dir, "dedupelab.yml")
	dbPath := filepath.Join(dir, "index.db")
	planPath := filepath.Join(dir, "plan.csv")
	checkpointPath := filepath.Join(dir, "checkpoint.json")
	t.Setenv("DEDUPELAB_DB_PATH", dbPath)
	t.Setenv("DEDUPELAB_METRICS_PATH", filepath.Join(dir, "metrics.json"))

	require.Equal(t, exitOK, run([]string{"scan", "--config", cfgPath, "--root", root, "--db", dbPath}))
	require.Equal(t, exitOK, run([]string{"plan", "--config", cfgPath, "--db", dbPath, "--out", planPath}))
	require.Equal(t, exitOK, run([]string{
		"rename-apply", "--config", cfgPath, "--plan", planPath, "--checkpoint", checkpointPath, "--force",
	}))

	quarantine := filepath.Join(root, ".deduplab_duplicates")
	entries, err := os.ReadDir(quarantine)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The default config exports per-folder metadata during scan.
	_, err = os.Stat(filepath.Join(root, "meta.json"))
	require.NoError(t, err)

	require.Equal(t, exitOK, run([]string{"verify", "--config", cfgPath, "--checkpoint", checkpointPath}))
	require.Equal(t, exitOK, run([]string{"rollback", "--config", cfgPath, "--checkpoint", checkpointPath}))

	remaining, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, remaining, 4) // a.txt, b.txt, meta.json, empty .deduplab_duplicates dir
}

func TestRun_MetricsRendersFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "metrics.json")
	require.Equal(t, exitOK, run([]string{"metrics", "--out", out}))

	_, err := os.Stat(out)
	require.NoError(t, err)
}

func TestRun_ConfigShowAutocreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dedupelab.yml")
	require.Equal(t, exitOK, run([]string{"config", "--path", path, "show"}))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
