// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package store defines the content store that batch artifacts are
// written to and read from, plus two adapters: a filesystem store and
// an in-memory store.
//
// The contract is deliberately narrow. [Store] offers write-once Put,
// streaming PutStream, and Get by key; keys are slash-separated
// relative paths chosen by the caller, and every successful write
// returns a retrieval URI. Writing to an existing key fails with
// [ErrKeyExists]; reading a missing key fails with [ErrNotFound]. The
// batch writer streams through PutStream and relies on one guarantee
// above all: if the stream callback returns an error, no object
// appears at the key.
//
// [FS] keeps each object as a file under a root directory, written
// through a temp file and an atomic rename, with a CBOR metadata
// sidecar recording sizes, a keyed BLAKE3 integrity digest, and how
// the stored bytes were transformed. Objects can be transparently
// compressed (lz4 or zstd) and encrypted at rest (age, X25519
// recipients); Get reverses both and verifies integrity, so callers
// always see exactly the bytes they wrote. [Memory] holds objects in a
// map for tests and ephemeral pipelines.
package store
