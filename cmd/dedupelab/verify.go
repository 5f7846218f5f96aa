// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"

	"github.com/allaunthefox/DeDupeLab/internal/checkpoint"
	"github.com/allaunthefox/DeDupeLab/internal/log"
	"github.com/allaunthefox/DeDupeLab/internal/verify"
)

func runVerify(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	cfgPath := fs.String("config", "dedupelab.yml", "path to the config file")
	checkpointPath := fs.String("checkpoint", "output/checkpoint.json", "path to the checkpoint to audit")
	if err := fs.Parse(args); err != nil {
		return exitFatal, err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return exitFatal, err
	}

	logger := log.FromContext(ctx, "cli/verify")

	cp, err := checkpoint.Read(*checkpointPath)
	if err != nil {
		return exitFatal, err
	}

	res := verify.Run(cp)

	recordRun(ctx, cfg.DBPath, "verify")

	logger.Info().Int("checked", res.Checked).Int("missing", len(res.Missing)).Msg("verify: complete")
	for _, p := range res.Missing {
		logger.Warn().Str("path", p).Msg("verify: destination missing")
	}

	if !res.OK() {
		return exitIntegrity, nil
	}
	return exitOK, nil
}
