// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory is a map-backed store for tests and ephemeral pipelines. It
// honors the same write-once contract as the filesystem store.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Put stores a copy of data at key.
func (m *Memory) Put(ctx context.Context, key string, data []byte) (string, error) {
	if err := checkKey(key); err != nil {
		return "", fmt.Errorf("put: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; ok {
		return "", fmt.Errorf("put %q: %w", key, ErrKeyExists)
	}
	m.objects[key] = bytes.Clone(data)
	return "memory://" + key, nil
}

// PutStream collects the callback's bytes and commits them only if the
// callback succeeds. The callback runs without the store lock.
func (m *Memory) PutStream(ctx context.Context, key string, write func(io.Writer) error) (string, error) {
	if err := checkKey(key); err != nil {
		return "", fmt.Errorf("put: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	_, exists := m.objects[key]
	m.mu.Unlock()
	if exists {
		return "", fmt.Errorf("put %q: %w", key, ErrKeyExists)
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; ok {
		return "", fmt.Errorf("put %q: %w", key, ErrKeyExists)
	}
	m.objects[key] = buf.Bytes()
	return "memory://" + key, nil
}

// Get returns a copy of the bytes stored at key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	return bytes.Clone(data), nil
}

// Has reports whether key holds an object.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
