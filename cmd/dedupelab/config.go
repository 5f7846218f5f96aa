// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/allaunthefox/DeDupeLab/internal/config"
)

func runConfig(ctx context.Context, args []string) (int, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	path := fs.String("path", "dedupelab.yml", "path to the config file")
	if err := fs.Parse(args); err != nil {
		return exitFatal, err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return exitFatal, fmt.Errorf("config: expected a subcommand (show|set)")
	}

	switch rest[0] {
	case "show":
		return configShow(*path)
	case "set":
		return exitFatal, fmt.Errorf("config set: editing individual keys is not supported; edit %s directly", *path)
	default:
		return exitFatal, fmt.Errorf("config: unknown subcommand %q", rest[0])
	}
}

func configShow(path string) (int, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return exitFatal, err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return exitFatal, err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return exitFatal, err
	}
	return exitOK, nil
}
