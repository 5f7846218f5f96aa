// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"os"

	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/metrics"
)

// runMetrics renders an empty-but-valid metrics.json at the configured
// path. The pipeline subcommands each render their own live sink at the
// end of a run; this standalone subcommand exists for operators who want
// to confirm the artifact shape without running a full pipeline.
func runMetrics(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("metrics", flag.ContinueOnError)
	cfgPath := fs.String("config", "dedupelab.yml", "path to the config file")
	outPath := fs.String("out", "", "path to write metrics.json (default from config)")
	if err := fs.Parse(args); err != nil {
		return exitFatal, err
	}

	if *outPath == "" {
		cfg, err := loadConfig(*cfgPath)
		if err != nil {
			return exitFatal, err
		}
		*outPath = cfg.MetricsPath
	}

	logger := log.FromContext(ctx, "cli/metrics")

	if err := os.MkdirAll(parentDir(*outPath), 0o755); err != nil {
		return exitFatal, err
	}

	sink := metrics.NewPrometheusSink()
	if err := sink.Render(*outPath); err != nil {
		return exitFatal, err
	}

	logger.Info().Str("out", *outPath).Msg("metrics: rendered")
	return exitOK, nil
}
