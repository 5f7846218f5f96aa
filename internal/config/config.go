// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config is the ambient, thin configuration loader: a
// human-editable YAML file auto-created with defaults, merged with
// environment variable overrides. The core never parses YAML or reads
// the environment itself; every component receives a *Config value
// explicitly from the CLI.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/allaunthefox/DeDupeLab/internal/durable"
)

// Config holds every key the configuration file recognizes.
type Config struct {
	HashAlgo         string   `yaml:"hash_algo"`
	Parallelism      int      `yaml:"parallelism"`
	DryRun           bool     `yaml:"dry_run"`
	IgnorePatterns   []string `yaml:"ignore_patterns"`
	Checkpoint       bool     `yaml:"checkpoint"`
	DBPath           string   `yaml:"db_path"`
	LogDir           string   `yaml:"log_dir"`
	MetricsPath      string   `yaml:"metrics_path"`
	ExportFolderMeta bool     `yaml:"export_folder_meta"`
	MetaPretty       bool     `yaml:"meta_pretty"`
	MetaLegacyV3     bool     `yaml:"meta_legacy_v3"`
	LogLevel         string   `yaml:"log_level"`
}

// Defaults returns the configuration written on first run and used as
// the base layer under file and environment overrides.
func Defaults() Config {
	return Config{
		HashAlgo:         "sha256",
		Parallelism:      0,
		DryRun:           true,
		IgnorePatterns:   []string{".git", "node_modules", "__pycache__", ".deduplab_duplicates"},
		Checkpoint:       true,
		DBPath:           "output/index.db",
		LogDir:           "output/logs",
		MetricsPath:      "output/metrics.json",
		ExportFolderMeta: true,
		MetaPretty:       false,
		MetaLegacyV3:     false,
		LogLevel:         "info",
	}
}

// envPrefix namespaces every recognized key's environment variable
// override.
const envPrefix = "DEDUPELAB_"

// Load reads path (auto-creating it with Defaults() if absent), then
// applies environment variable overrides, and returns the merged
// Config. Precedence: environment variables > file > built-in defaults.
func Load(path string) (*Config, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}

	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return err
	}
	return durable.WriteFile(path, data, 0o644)
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envPrefix + "HASH_ALGO"); ok {
		cfg.HashAlgo = v
	}
	if v, ok := envInt(envPrefix + "PARALLELISM"); ok {
		cfg.Parallelism = v
	}
	if v, ok := envBool(envPrefix + "DRY_RUN"); ok {
		cfg.DryRun = v
	}
	if v, ok := envBool(envPrefix + "CHECKPOINT"); ok {
		cfg.Checkpoint = v
	}
	if v, ok := os.LookupEnv(envPrefix + "DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_DIR"); ok {
		cfg.LogDir = v
	}
	if v, ok := os.LookupEnv(envPrefix + "METRICS_PATH"); ok {
		cfg.MetricsPath = v
	}
	if v, ok := envBool(envPrefix + "EXPORT_FOLDER_META"); ok {
		cfg.ExportFolderMeta = v
	}
	if v, ok := envBool(envPrefix + "META_PRETTY"); ok {
		cfg.MetaPretty = v
	}
	if v, ok := envBool(envPrefix + "META_LEGACY_V3"); ok {
		cfg.MetaLegacyV3 = v
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

func envInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
