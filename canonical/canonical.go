// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"sort"
	"strconv"
)

// Field is a single key→value pair in an announcement's flat field
// mapping. Keys are the protocol wire names (for the discriminant
// that is "dsnpType", not the model name), and values are already
// stringified.
type Field struct {
	Key   string
	Value string
}

// Marshal encodes fields into the canonical signing byte string:
// pairs sorted by lexicographic byte order of the key, each pair
// concatenated as key followed by value, with no delimiters.
//
// The input slice is not modified. Marshal is deterministic: the same
// fields produce the same bytes on every call, in every process.
func Marshal(fields []Field) []byte {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})

	var size int
	for _, field := range sorted {
		size += len(field.Key) + len(field.Value)
	}

	out := make([]byte, 0, size)
	for _, field := range sorted {
		out = append(out, field.Key...)
		out = append(out, field.Value...)
	}
	return out
}

// String is like [Marshal] but returns the encoding as a string.
func String(fields []Field) string {
	return string(Marshal(fields))
}

// Uint renders an unsigned integer value in decimal, the canonical
// rendering for timestamps and numeric identifiers.
func Uint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// Int renders a signed integer value in decimal, the canonical
// rendering for enum discriminants.
func Int(v int64) string {
	return strconv.FormatInt(v, 10)
}
