// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/herald-social/herald/digest"
)

func TestSignRecoverRoundTrip(t *testing.T) {
	signer, err := GenerateKeySigner()
	if err != nil {
		t.Fatalf("GenerateKeySigner: %v", err)
	}
	payload := []byte("contentHash0x12345dsnpType2fromId1urlhttps://example.org/a")

	sig, err := signer.Sign(context.Background(), payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 2+SignatureSize*2 {
		t.Fatalf("signature %q not in 0x + %d hex form", sig, SignatureSize*2)
	}

	recovered, err := CompactRecoverer{}.RecoverSigner(payload, sig)
	if err != nil {
		t.Fatalf("RecoverSigner: %v", err)
	}
	if recovered != signer.Address() {
		t.Fatalf("recovered %s, want %s", recovered, signer.Address())
	}
}

func TestRecoverToleratesBareRecoveryCode(t *testing.T) {
	signer, err := GenerateKeySigner()
	if err != nil {
		t.Fatalf("GenerateKeySigner: %v", err)
	}
	payload := []byte("bare recovery code")
	sig, err := signer.Sign(context.Background(), payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	raw, err := hex.DecodeString(sig[2:])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	if v := raw[SignatureSize-1]; v != 27 && v != 28 {
		t.Fatalf("v = %d, want 27 or 28", v)
	}
	raw[SignatureSize-1] -= 27
	bare := "0x" + hex.EncodeToString(raw)

	recovered, err := RecoverSigner(payload, bare)
	if err != nil {
		t.Fatalf("RecoverSigner with bare v: %v", err)
	}
	if recovered != signer.Address() {
		t.Fatalf("recovered %s, want %s", recovered, signer.Address())
	}
}

func TestRecoverTamperedPayload(t *testing.T) {
	signer, err := GenerateKeySigner()
	if err != nil {
		t.Fatalf("GenerateKeySigner: %v", err)
	}
	sig, err := signer.Sign(context.Background(), []byte("original"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	// Recovery over different bytes either fails outright or yields
	// some other key's address; it must never yield the signer's.
	recovered, err := RecoverSigner([]byte("tampered"), sig)
	if err == nil && recovered == signer.Address() {
		t.Fatalf("tampered payload recovered the original signer %s", recovered)
	}
}

func TestRecoverRejectsMalformedSignature(t *testing.T) {
	cases := []struct {
		name string
		sig  string
	}{
		{"empty", ""},
		{"missing prefix", strings.Repeat("ab", SignatureSize)},
		{"too short", "0x" + strings.Repeat("ab", SignatureSize-1)},
		{"too long", "0x" + strings.Repeat("ab", SignatureSize+1)},
		{"non-hex", "0x" + strings.Repeat("zz", SignatureSize)},
		{"bad recovery header", "0x" + strings.Repeat("11", SignatureSize-1) + "63"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := RecoverSigner([]byte("payload"), tc.sig); err == nil {
				t.Fatalf("RecoverSigner(%q) succeeded, want error", tc.sig)
			}
		})
	}
}

func TestKnownKeyAddress(t *testing.T) {
	// The address of private key 1 is a fixture every secp256k1
	// implementation agrees on.
	signer, err := KeySignerFromHex("0x0000000000000000000000000000000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("KeySignerFromHex: %v", err)
	}
	want := "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf"
	if got := signer.Address().Hex(); got != want {
		t.Fatalf("address = %s, want %s", got, want)
	}
}

func TestKeySignerFromHexRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"short", "0x01"},
		{"long", "0x" + strings.Repeat("01", 33)},
		{"non-hex", "0x" + strings.Repeat("zz", 32)},
		{"zero", "0x" + strings.Repeat("00", 32)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := KeySignerFromHex(tc.key); err == nil {
				t.Fatalf("KeySignerFromHex(%q) succeeded, want error", tc.key)
			}
		})
	}
}

func TestPersonalDigestPrefix(t *testing.T) {
	payload := []byte("hello")
	manual := digest.Sum([]byte("\x19Ethereum Signed Message:\n5hello"))
	if got := PersonalDigest(payload); got != manual {
		t.Fatalf("PersonalDigest = %s, want %s", digest.Hex(got), digest.Hex(manual))
	}
}

func TestDifferentKeysDifferentAddresses(t *testing.T) {
	a, err := GenerateKeySigner()
	if err != nil {
		t.Fatalf("GenerateKeySigner: %v", err)
	}
	b, err := GenerateKeySigner()
	if err != nil {
		t.Fatalf("GenerateKeySigner: %v", err)
	}
	if a.Address() == b.Address() {
		t.Fatalf("two fresh keys share address %s", a.Address())
	}
}
