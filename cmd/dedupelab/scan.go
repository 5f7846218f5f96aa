// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allaunthefox/DeDupeLab/internal/aggregate"
	"github.com/allaunthefox/DeDupeLab/internal/config"
	"github.com/allaunthefox/DeDupeLab/internal/folderstats"
	"github.com/allaunthefox/DeDupeLab/internal/indexer"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/metrics"
	"github.com/allaunthefox/DeDupeLab/internal/record"
	"github.com/allaunthefox/DeDupeLab/internal/store"
	"github.com/allaunthefox/DeDupeLab/internal/walker"
)

func runScan(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	var roots stringSlice
	fs.Var(&roots, "root", "root directory to scan (repeatable)")
	cfgPath := fs.String("config", "dedupelab.yml", "path to the config file")
	dbPath := fs.String("db", "", "path to the index database (default from config)")
	if err := fs.Parse(args); err != nil {
		return exitFatal, err
	}
	if len(roots) == 0 {
		return exitFatal, fmt.Errorf("scan: at least one --root is required")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return exitFatal, err
	}
	if *dbPath == "" {
		*dbPath = cfg.DBPath
	}

	logger := log.FromContext(ctx, "cli/scan")
	sink := metrics.NewPrometheusSink()

	if err := os.MkdirAll(parentDir(*dbPath), 0o755); err != nil {
		return exitFatal, err
	}

	st, err := store.Open(ctx, *dbPath, store.DefaultConfig())
	if err != nil {
		return exitFatal, err
	}
	defer func() { _ = st.Close() }()

	res, err := indexer.Run(ctx, indexer.Options{
		Roots:       roots,
		Ignore:      mergeIgnore(cfg.IgnorePatterns),
		Parallelism: cfg.Parallelism,
		Progress: func(processed, total int) {
			logger.Info().Int("processed", processed).Int("total", total).Msg("scan: progress")
		},
	})
	if err != nil {
		return exitFatal, err
	}

	if err := st.UpsertFiles(ctx, res.Records); err != nil {
		return exitFatal, err
	}

	runID := log.RunIDFromContext(ctx)
	if err := st.RecordRun(ctx, runID, time.Now(), "scan"); err != nil {
		return exitFatal, err
	}

	frame := aggregate.New(res.Records)
	bytesScanned := frame.Sum()
	tagCounts := frame.ValueCounts(func(r record.File) string { return string(r.ContextTag) })

	sink.IncFilesScanned(len(res.Records))
	sink.AddBytesScanned(bytesScanned)

	if cfg.ExportFolderMeta {
		exportFolderMeta(ctx, cfg, roots, frame)
	}

	renderMetrics(ctx, sink, cfg.MetricsPath)

	logger.Info().
		Int("files", len(res.Records)).
		Int64("bytes", bytesScanned).
		Int("archived", tagCounts["archived"]).
		Int("unarchived", tagCounts["unarchived"]).
		Dur("duration", res.Duration).
		Msg("scan: complete")
	return exitOK, nil
}

// exportFolderMeta writes one meta.json per distinct parent directory of
// the indexed records. Export failures only warn: descriptive metadata
// must never fail a scan.
func exportFolderMeta(ctx context.Context, cfg *config.Config, roots []string, frame aggregate.Frame) {
	logger := log.FromContext(ctx, "cli/scan")

	byFolder := frame.GroupBy(func(r record.File) string { return filepath.Dir(r.Path) })
	for folder, recs := range byFolder {
		exp := &folderstats.FileExporter{
			Root:     owningRoot(roots, folder),
			LegacyV3: cfg.MetaLegacyV3,
			Pretty:   cfg.MetaPretty,
		}
		if err := exp.Export(ctx, folder, recs); err != nil {
			logger.Warn().Err(err).Str("folder", folder).Msg("scan: meta export failed")
		}
	}
}

// owningRoot picks the scan root that contains folder: the longest root
// whose path is a prefix (component-wise) of folder. If none matches,
// the folder itself is used so relative paths degrade gracefully.
func owningRoot(roots []string, folder string) string {
	best := ""
	for _, root := range roots {
		clean := filepath.Clean(root)
		if folder == clean || strings.HasPrefix(folder, clean+string(filepath.Separator)) {
			if len(clean) > len(best) {
				best = clean
			}
		}
	}
	if best == "" {
		return folder
	}
	return best
}

// mergeIgnore unions the built-in ignore set with the configured
// patterns, preserving order and dropping duplicates.
func mergeIgnore(configured []string) []string {
	seen := make(map[string]struct{}, len(walker.DefaultIgnore)+len(configured))
	var out []string
	for _, tok := range append(append([]string(nil), walker.DefaultIgnore...), configured...) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
