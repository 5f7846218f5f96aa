// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/allaunthefox/DeDupeLab/internal/group"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/metrics"
	"github.com/allaunthefox/DeDupeLab/internal/plan"
	"github.com/allaunthefox/DeDupeLab/internal/store"
)

func runPlan(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	cfgPath := fs.String("config", "dedupelab.yml", "path to the config file")
	dbPath := fs.String("db", "", "path to the index database (default from config)")
	outPath := fs.String("out", "output/plan.csv", "path to write the plan CSV")
	if err := fs.Parse(args); err != nil {
		return exitFatal, err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return exitFatal, err
	}
	if *dbPath == "" {
		*dbPath = cfg.DBPath
	}

	logger := log.FromContext(ctx, "cli/plan")
	sink := metrics.NewPrometheusSink()

	st, err := store.Open(ctx, *dbPath, store.DefaultConfig())
	if err != nil {
		return exitFatal, err
	}
	defer func() { _ = st.Close() }()

	resolved, err := group.Run(ctx, st)
	if err != nil {
		return exitFatal, err
	}

	if err := os.MkdirAll(parentDir(*outPath), 0o755); err != nil {
		return exitFatal, err
	}

	rows := plan.Build(resolved)
	if err := plan.Write(*outPath, rows); err != nil {
		return exitFatal, err
	}

	if err := st.RecordRun(ctx, log.RunIDFromContext(ctx), time.Now(), "plan"); err != nil {
		return exitFatal, err
	}

	sink.IncDuplicateGroups(len(resolved))
	renderMetrics(ctx, sink, cfg.MetricsPath)

	logger.Info().Int("groups", len(resolved)).Int("rows", len(rows)).Str("out", *outPath).Msg("plan: complete")
	return exitOK, nil
}
