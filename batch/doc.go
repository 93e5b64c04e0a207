// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package batch packages signed announcements into content-addressed
// columnar files and reads them back.
//
// A batch holds one or more announcements of a single type. [Create]
// pulls announcements from a [Source], pins the batch type from the
// first element, and streams Parquet-encoded rows through the store's
// PutStream sink; a Keccak-256 tap hashes every byte on the way out,
// so the returned [Artifact] carries the content hash of exactly the
// bytes that were stored. An exhausted source fails with
// [ErrEmptyBatch] before anything is opened; an element of a different
// type aborts the write with [MixedTypeError] and the store discards
// the partial object. Tombstone announcements are never batched;
// schema lookups for them fail with [UnsupportedTypeError].
//
// Each announcement type maps to a fixed column schema ([SchemaFor])
// using two physical types, INT32 and BYTE_ARRAY, and to a set of
// bloom-filtered columns ([BloomSpecFor]) covering the fields
// applications later filter by. [Open] and [OpenReaderAt] replay rows
// in written order, decode them back into typed announcements, and
// answer membership pre-filters through [File.Probe] with the usual
// bloom guarantee: false positives possible, false negatives never.
//
// Memory stays bounded by one row group regardless of stream length,
// and row order in the file always equals source order.
package batch
