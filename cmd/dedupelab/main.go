// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command dedupelab is the CLI surface over the deduplication pipeline:
// scan, plan, rename-apply, rollback, verify, metrics, and config
// subcommands, each a thin wiring layer over the internal packages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/allaunthefox/DeDupeLab/internal/log"
)

var version = "dev"

const (
	exitOK          = 0
	exitIntegrity   = 5
	exitFatal       = 10
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: dedupelab <scan|plan|rename-apply|rollback|verify|metrics|config> [flags]")
		return exitFatal
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	ctx = log.ContextWithRunID(ctx, runID)

	cmd, rest := args[0], args[1:]
	var err error
	var code int

	switch cmd {
	case "scan":
		code, err = runScan(ctx, rest)
	case "plan":
		code, err = runPlan(ctx, rest)
	case "rename-apply":
		code, err = runApply(ctx, rest)
	case "rollback":
		code, err = runRollback(ctx, rest)
	case "verify":
		code, err = runVerify(ctx, rest)
	case "metrics":
		code, err = runMetrics(ctx, rest)
	case "config":
		code, err = runConfig(ctx, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", cmd)
		return exitFatal
	}

	if ctx.Err() != nil {
		return exitInterrupted
	}
	if err != nil {
		logger := log.FromContext(ctx, "cli")
		logger.Error().Err(err).Str("cmd", cmd).Msg("command failed")
		if code == exitOK {
			code = exitFatal
		}
	}
	return code
}
