// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Size is the length of a Keccak-256 digest in bytes.
const Size = 32

// HexLen is the length of a digest in its canonical wire form:
// "0x" followed by two hex characters per byte.
const HexLen = 2 + Size*2

// Digest is a raw Keccak-256 digest.
type Digest [Size]byte

// New returns a streaming Keccak-256 hasher.
func New() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

// Sum computes the Keccak-256 digest of data.
func Sum(data []byte) Digest {
	h := New()
	h.Write(data)
	var d Digest
	h.Sum(d[:0])
	return d
}

// Hex renders d in the canonical wire form: "0x" followed by 64
// lowercase hex characters.
func Hex(d Digest) string {
	return "0x" + hex.EncodeToString(d[:])
}

// Bytes computes the Keccak-256 digest of data and renders it in the
// canonical wire form.
func Bytes(data []byte) string {
	return Hex(Sum(data))
}

// Parse converts a digest from its wire form back into a [Digest].
// The input must carry the 0x prefix and exactly 64 hex characters;
// both hex cases are accepted.
func Parse(s string) (Digest, error) {
	var d Digest
	rest, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return d, fmt.Errorf("digest %q: missing 0x prefix", s)
	}
	if len(rest) != Size*2 {
		return d, fmt.Errorf("digest %q: want %d hex characters, got %d", s, Size*2, len(rest))
	}
	if _, err := hex.Decode(d[:], []byte(rest)); err != nil {
		return d, fmt.Errorf("digest %q: %w", s, err)
	}
	return d, nil
}
