// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package canonical implements the deterministic byte encoding of an
// announcement that is used as signing and verification material.
//
// The encoding is a protocol constant: take the announcement's fields
// as a flat key→value mapping, sort the pairs by lexicographic byte
// order of the key, and concatenate key followed by value for every
// pair, with no delimiters and no escaping. Numeric values are
// rendered in decimal. The discriminant field serializes under its
// wire name "dsnpType" rather than its model name.
//
// Because signatures are computed over these exact bytes, any
// deviation — reordering, whitespace, field omission, alternative
// numeric rendering — invalidates every existing signature. The
// functions in this package are pure and have no error cases.
//
// This package has no dependencies on other herald packages.
package canonical
