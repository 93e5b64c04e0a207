// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package herald

import (
	"fmt"
	"log/slog"
	"os"

	"filippo.io/age"

	"github.com/herald-social/herald/batch"
	"github.com/herald-social/herald/config"
	"github.com/herald-social/herald/store"
)

// NewFromConfig builds a Client from file configuration plus the
// collaborators configuration cannot carry: the signer, age
// identities for reading encrypted objects, a registry, a publisher.
// Fields already set in opts win over what the configuration would
// build, so a caller can take the configured store settings but
// supply its own logger, or the other way around.
func NewFromConfig(cfg *config.Config, opts Options) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if opts.Logger == nil {
		level, err := cfg.Log.SlogLevel()
		if err != nil {
			return nil, err
		}
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	if opts.Store == nil {
		st, err := storeFromConfig(cfg.Store, opts)
		if err != nil {
			return nil, err
		}
		opts.Store = st
	}

	if len(opts.BatchOptions) == 0 {
		compression, err := batch.ParseCompression(cfg.Batch.Compression)
		if err != nil {
			return nil, fmt.Errorf("batch.compression: %w", err)
		}
		opts.BatchOptions = []batch.Option{
			batch.WithCompression(compression),
			batch.WithBloomBits(cfg.Batch.BloomBits),
		}
		if cfg.Batch.MaxRowGroupRows > 0 {
			opts.BatchOptions = append(opts.BatchOptions, batch.WithMaxRowGroupRows(cfg.Batch.MaxRowGroupRows))
		}
	}

	return New(opts), nil
}

func storeFromConfig(cfg config.StoreConfig, opts Options) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendFilesystem:
		compression, err := store.ParseCompressionTag(cfg.Compression)
		if err != nil {
			return nil, fmt.Errorf("store.compression: %w", err)
		}
		recipients := make([]age.Recipient, 0, len(cfg.AgeRecipients))
		for i, r := range cfg.AgeRecipients {
			recipient, err := age.ParseX25519Recipient(r)
			if err != nil {
				return nil, fmt.Errorf("store.age_recipients[%d]: %w", i, err)
			}
			recipients = append(recipients, recipient)
		}
		return store.NewFS(cfg.Root, store.FSOptions{
			Compression: compression,
			Recipients:  recipients,
			Identities:  opts.StoreIdentities,
			Logger:      opts.Logger,
		})
	default:
		return nil, fmt.Errorf("store.backend %q", cfg.Backend)
	}
}
