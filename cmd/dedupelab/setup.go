// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"os"
	"time"

	"github.com/allaunthefox/DeDupeLab/internal/config"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/metrics"
	"github.com/allaunthefox/DeDupeLab/internal/store"
)

// loadConfig reads (auto-creating if absent) the YAML config at path and
// configures the global logger from it. Every subcommand goes through
// here so one invocation has exactly one logger configuration.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log.Configure(log.Config{Level: cfg.LogLevel, Version: version})
	return cfg, nil
}

// renderMetrics writes the sink's current sample values to path.
// Metrics are an observability artifact, never a reason to fail the
// operation that produced them, so failures only log a warning.
func renderMetrics(ctx context.Context, sink *metrics.PrometheusSink, path string) {
	logger := log.FromContext(ctx, "cli")
	if err := os.MkdirAll(parentDir(path), 0o755); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("metrics: mkdir failed")
		return
	}
	if err := sink.Render(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("metrics: render failed")
	}
}

// recordRun appends a run-ledger entry to the store at dbPath,
// best-effort. Subcommands that don't otherwise open the store (apply,
// rollback, verify) use this; if no index exists yet there is nothing
// to append to, and the ledger must never make those operations fail.
func recordRun(ctx context.Context, dbPath, note string) {
	logger := log.FromContext(ctx, "cli")
	if _, err := os.Stat(dbPath); err != nil {
		logger.Debug().Str("db", dbPath).Msg("run ledger: no index database, skipping")
		return
	}

	st, err := store.Open(ctx, dbPath, store.DefaultConfig())
	if err != nil {
		logger.Warn().Err(err).Str("db", dbPath).Msg("run ledger: open failed")
		return
	}
	defer func() { _ = st.Close() }()

	if err := st.RecordRun(ctx, log.RunIDFromContext(ctx), time.Now(), note); err != nil {
		logger.Warn().Err(err).Str("db", dbPath).Msg("run ledger: insert failed")
	}
}
