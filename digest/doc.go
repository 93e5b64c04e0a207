// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides Keccak-256 content hashing.
//
// Keccak-256 (the pre-standardization SHA-3 variant used by Ethereum
// tooling) is the protocol's single hash function: content hashes
// embedded in Broadcast, Reply, and Profile announcements, the content
// hash identifying a written batch artifact, and the personal-message
// digest that signatures are computed over all use it. Digests travel
// as 0x-prefixed lowercase hex strings.
//
// The API surface is small:
//
//   - [New]: a streaming [hash.Hash] for incremental hashing, used by
//     the batch writer's sink tap
//   - [Sum]: one-shot digest of a byte slice
//   - [Hex] and [Parse]: conversion between [Digest] and the
//     canonical 0x-hex string form
//   - [Bytes]: convenience composition of [Sum] and [Hex]
//
// This package has no dependencies on other herald packages.
package digest
