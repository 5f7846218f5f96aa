// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"

	"github.com/allaunthefox/DeDupeLab/internal/checkpoint"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/metrics"
	"github.com/allaunthefox/DeDupeLab/internal/rollback"
)

func runRollback(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("rollback", flag.ContinueOnError)
	cfgPath := fs.String("config", "dedupelab.yml", "path to the config file")
	checkpointPath := fs.String("checkpoint", "output/checkpoint.json", "path to the checkpoint to roll back")
	if err := fs.Parse(args); err != nil {
		return exitFatal, err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return exitFatal, err
	}

	logger := log.FromContext(ctx, "cli/rollback")
	sink := metrics.NewPrometheusSink()

	cp, err := checkpoint.Read(*checkpointPath)
	if err != nil {
		return exitFatal, err
	}

	res := rollback.Run(ctx, cp)

	recordRun(ctx, cfg.DBPath, "rollback")
	sink.ObserveRollback(res.Restored, res.Errors)
	renderMetrics(ctx, sink, cfg.MetricsPath)

	logger.Info().Int("restored", res.Restored).Int("errors", res.Errors).Msg("rollback: complete")

	if res.Errors > 0 {
		return exitIntegrity, nil
	}
	return exitOK, nil
}
