// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/herald-social/herald/digest"
)

// AddressSize is the length of a signer identity in bytes.
const AddressSize = 20

// Address is a signer identity: the last 20 bytes of the Keccak-256
// hash of the signer's uncompressed public key.
type Address [AddressSize]byte

// Hex renders a as "0x" followed by 40 lowercase hex characters.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// ParseAddress converts a 0x-prefixed 40-character hex string into an
// Address. Mixed-case (checksummed) input is accepted; the checksum is
// not verified.
func ParseAddress(s string) (Address, error) {
	var a Address
	rest, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return a, fmt.Errorf("address %q: missing 0x prefix", s)
	}
	if len(rest) != AddressSize*2 {
		return a, fmt.Errorf("address %q: want %d hex characters, got %d", s, AddressSize*2, len(rest))
	}
	if _, err := hex.Decode(a[:], []byte(rest)); err != nil {
		return a, fmt.Errorf("address %q: %w", s, err)
	}
	return a, nil
}

// AddressOf derives the address for a public key.
func AddressOf(pub *secp256k1.PublicKey) Address {
	// Drop the leading 0x04 marker of the uncompressed encoding; the
	// hash covers the raw X||Y coordinates.
	d := digest.Sum(pub.SerializeUncompressed()[1:])
	var a Address
	copy(a[:], d[digest.Size-AddressSize:])
	return a
}
