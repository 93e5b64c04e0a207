// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"strings"
	"testing"
)

func TestAddressHexParseRoundTrip(t *testing.T) {
	var a Address
	for i := range a {
		a[i] = byte(i * 7)
	}
	s := a.Hex()
	if !strings.HasPrefix(s, "0x") || len(s) != 2+AddressSize*2 {
		t.Fatalf("Hex = %q, want 0x + %d hex characters", s, AddressSize*2)
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress(%q): %v", s, err)
	}
	if parsed != a {
		t.Fatalf("round trip mismatch: %s != %s", parsed, a)
	}
}

func TestParseAddressAcceptsMixedCase(t *testing.T) {
	// Checksummed addresses use hex case as a checksum; parsing
	// accepts them without verifying it.
	checksummed := "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
	parsed, err := ParseAddress(checksummed)
	if err != nil {
		t.Fatalf("ParseAddress(%q): %v", checksummed, err)
	}
	if got := parsed.Hex(); got != strings.ToLower(checksummed) {
		t.Fatalf("Hex = %s, want %s", got, strings.ToLower(checksummed))
	}
}

func TestParseAddressRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"7e5f4552091a69125d5dfcb7b8c2659029395bdf",
		"0x7e5f",
		"0x" + strings.Repeat("ab", 21),
		"0x" + strings.Repeat("zz", 20),
	}
	for _, s := range cases {
		if _, err := ParseAddress(s); err == nil {
			t.Errorf("ParseAddress(%q) succeeded, want error", s)
		}
	}
}
