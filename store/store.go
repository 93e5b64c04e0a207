// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound reports a Get for a key with no stored object.
var ErrNotFound = errors.New("object not found")

// ErrKeyExists reports a write to a key that already holds an object.
// Keys are write-once; there is no overwrite or append.
var ErrKeyExists = errors.New("key already exists")

// Store is the content store contract consumed by the batch writer and
// reader. Implementations must be safe for concurrent use.
type Store interface {
	// Put stores data at key and returns the retrieval URI.
	Put(ctx context.Context, key string, data []byte) (string, error)

	// PutStream stores an object produced incrementally: write
	// receives the destination sink and the object consists of
	// exactly the bytes it writes, in order. If write returns an
	// error, the store discards everything and no object appears at
	// the key.
	PutStream(ctx context.Context, key string, write func(io.Writer) error) (string, error)

	// Get returns the bytes previously stored at key.
	Get(ctx context.Context, key string) ([]byte, error)
}

// checkKey validates a storage key: a non-empty, slash-separated
// relative path with no empty, ".", or ".." segments. The filesystem
// adapter maps segments onto directories, so traversal outside the
// root must be impossible by construction.
func checkKey(key string) error {
	if key == "" {
		return errors.New("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return fmt.Errorf("key %q: must be relative", key)
	}
	if strings.ContainsRune(key, '\\') {
		return fmt.Errorf("key %q: backslash not allowed", key)
	}
	for _, segment := range strings.Split(key, "/") {
		switch segment {
		case "":
			return fmt.Errorf("key %q: empty path segment", key)
		case ".", "..":
			return fmt.Errorf("key %q: %q segment not allowed", key, segment)
		}
	}
	return nil
}
