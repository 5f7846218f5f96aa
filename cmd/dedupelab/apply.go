// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"os"

	"github.com/allaunthefox/DeDupeLab/internal/apply"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/metrics"
	"github.com/allaunthefox/DeDupeLab/internal/plan"
)

func runApply(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("rename-apply", flag.ContinueOnError)
	cfgPath := fs.String("config", "dedupelab.yml", "path to the config file")
	planPath := fs.String("plan", "output/plan.csv", "path to the plan CSV")
	checkpointPath := fs.String("checkpoint", "output/checkpoint.json", "path to write the checkpoint")
	force := fs.Bool("force", false, "actually move files (default is dry-run)")
	if err := fs.Parse(args); err != nil {
		return exitFatal, err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return exitFatal, err
	}

	logger := log.FromContext(ctx, "cli/rename-apply")
	sink := metrics.NewPrometheusSink()

	rows, err := plan.Read(*planPath)
	if err != nil {
		return exitFatal, err
	}

	if err := os.MkdirAll(parentDir(*checkpointPath), 0o755); err != nil {
		return exitFatal, err
	}

	stats, err := apply.Run(ctx, rows, apply.Options{
		// The config's dry_run key sets the default mode; --force always wins.
		Force:          *force || !cfg.DryRun,
		CheckpointPath: *checkpointPath,
	})
	if err != nil {
		return exitFatal, err
	}

	recordRun(ctx, cfg.DBPath, "rename-apply")
	sink.ObserveApply(stats.Attempted, stats.Succeeded, stats.Skipped, stats.Errors, stats.BytesMoved)
	renderMetrics(ctx, sink, cfg.MetricsPath)

	logger.Info().
		Int("attempted", stats.Attempted).
		Int("succeeded", stats.Succeeded).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Int64("bytes_moved", stats.BytesMoved).
		Msg("rename-apply: complete")

	if stats.Errors > 0 {
		return exitIntegrity, nil
	}
	return exitOK, nil
}
