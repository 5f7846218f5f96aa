// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AutoCreatesFileWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedupelab.yml")
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err, "Load must create the file on first run")
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedupelab.yml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: 8\ndry_run: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Parallelism)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, "sha256", cfg.HashAlgo, "unset keys keep their default")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedupelab.yml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: 8\n"), 0o644))

	t.Setenv("DEDUPELAB_PARALLELISM", "16")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Parallelism)
}

func TestLoad_InvalidEnvValueIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedupelab.yml")
	t.Setenv("DEDUPELAB_PARALLELISM", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Parallelism)
}
