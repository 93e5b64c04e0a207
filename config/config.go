// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads Herald client configuration.
//
// Configuration is a single YAML file loaded from an explicit path.
// There is no discovery, no environment overrides, and no merging of
// multiple files; what the file says plus the package defaults is
// what runs. Load starts from Default and lets the file override the
// fields it names, so partial files are fine.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"filippo.io/age"
	"gopkg.in/yaml.v3"

	"github.com/herald-social/herald/batch"
	"github.com/herald-social/herald/store"
)

// Backend names a content store implementation.
type Backend string

const (
	// BackendMemory keeps objects in process memory. Useful for tests
	// and ephemeral tooling; nothing survives the process.
	BackendMemory Backend = "memory"
	// BackendFilesystem stores objects under a root directory.
	BackendFilesystem Backend = "filesystem"
)

// Config is the full Herald client configuration.
type Config struct {
	// Store configures where batch objects land.
	Store StoreConfig `yaml:"store"`

	// Batch configures the batch writer.
	Batch BatchConfig `yaml:"batch"`

	// Log configures client logging.
	Log LogConfig `yaml:"log"`
}

// StoreConfig configures the content store.
type StoreConfig struct {
	// Backend selects the store implementation.
	Backend Backend `yaml:"backend"`

	// Root is the object directory for the filesystem backend.
	Root string `yaml:"root"`

	// Compression is applied to objects at rest: "none", "lz4" or
	// "zstd". Independent of the batch writer's page compression.
	Compression string `yaml:"compression"`

	// AgeRecipients, when non-empty, encrypts objects at rest to
	// these X25519 recipients. Reading such objects back requires the
	// matching identities, which never appear in configuration files;
	// they are handed to the client directly.
	AgeRecipients []string `yaml:"age_recipients"`
}

// BatchConfig configures the batch writer.
type BatchConfig struct {
	// Compression is the Parquet page codec: "snappy",
	// "uncompressed", "gzip", "zstd" or "lz4".
	Compression string `yaml:"compression"`

	// BloomBits is the bloom filter budget in bits per distinct
	// value.
	BloomBits uint `yaml:"bloom_bits"`

	// MaxRowGroupRows caps rows per row group. Zero keeps the
	// writer's default.
	MaxRowGroupRows int64 `yaml:"max_row_group_rows"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum level emitted: "debug", "info", "warn" or
	// "error".
	Level string `yaml:"level"`
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}

// Default returns the configuration used when the file leaves a field
// unset.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Store: StoreConfig{
			Backend:     BackendFilesystem,
			Root:        filepath.Join(homeDir, ".local", "share", "herald", "objects"),
			Compression: "zstd",
		},
		Batch: BatchConfig{
			Compression: "snappy",
			BloomBits:   batch.DefaultBloomBits,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults. The result is
// not validated; call Validate before using it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once, each
// naming the offending field.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory:
	case BackendFilesystem:
		if c.Store.Root == "" {
			errs = append(errs, errors.New("store.root is required for the filesystem backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q is not %q or %q", c.Store.Backend, BackendMemory, BackendFilesystem))
	}
	if _, err := store.ParseCompressionTag(c.Store.Compression); err != nil {
		errs = append(errs, fmt.Errorf("store.compression: %w", err))
	}
	for i, r := range c.Store.AgeRecipients {
		if _, err := age.ParseX25519Recipient(r); err != nil {
			errs = append(errs, fmt.Errorf("store.age_recipients[%d]: %w", i, err))
		}
	}

	if _, err := batch.ParseCompression(c.Batch.Compression); err != nil {
		errs = append(errs, fmt.Errorf("batch.compression: %w", err))
	}
	if c.Batch.BloomBits == 0 {
		errs = append(errs, errors.New("batch.bloom_bits must be at least 1"))
	}
	if c.Batch.MaxRowGroupRows < 0 {
		errs = append(errs, fmt.Errorf("batch.max_row_group_rows %d is negative", c.Batch.MaxRowGroupRows))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
