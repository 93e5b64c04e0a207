// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SignatureSize is the length of a decoded compact signature: 32 bytes
// r, 32 bytes s, one recovery byte v.
const SignatureSize = 65

// KeySigner signs with an in-process secp256k1 private key. Use it
// when the application holds raw keys directly; anything custodial
// should implement [Signer] against its own backend instead.
type KeySigner struct {
	key  *secp256k1.PrivateKey
	addr Address
}

// NewKeySigner wraps an existing private key.
func NewKeySigner(key *secp256k1.PrivateKey) *KeySigner {
	return &KeySigner{key: key, addr: AddressOf(key.PubKey())}
}

// GenerateKeySigner creates a KeySigner with a fresh random key.
func GenerateKeySigner() (*KeySigner, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return NewKeySigner(key), nil
}

// KeySignerFromHex builds a KeySigner from a 32-byte hex private key,
// with or without a 0x prefix.
func KeySignerFromHex(s string) (*KeySigner, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("private key: want 32 bytes, got %d", len(raw))
	}
	key := secp256k1.PrivKeyFromBytes(raw)
	if key.Key.IsZero() {
		return nil, errors.New("private key is zero")
	}
	return NewKeySigner(key), nil
}

// Address returns the identity signatures recover to.
func (s *KeySigner) Address() Address {
	return s.addr
}

// Sign signs the personal-message digest of payload. Local and
// non-blocking; the context is unused.
func (s *KeySigner) Sign(_ context.Context, payload []byte) (string, error) {
	d := PersonalDigest(payload)
	compact := ecdsa.SignCompact(s.key, d[:], false)

	// The library emits the recovery header first; the wire order is
	// r||s||v.
	wire := make([]byte, SignatureSize)
	copy(wire, compact[1:])
	wire[SignatureSize-1] = compact[0]
	return "0x" + hex.EncodeToString(wire), nil
}

// CompactRecoverer is the stateless [Recoverer] for compact r||s||v
// signatures. The zero value is ready to use.
type CompactRecoverer struct{}

func (CompactRecoverer) RecoverSigner(payload []byte, signature string) (Address, error) {
	return RecoverSigner(payload, signature)
}

// RecoverSigner returns the address whose key produced signature over
// the personal-message digest of payload.
func RecoverSigner(payload []byte, signature string) (Address, error) {
	raw, err := parseSignature(signature)
	if err != nil {
		return Address{}, err
	}

	header := raw[SignatureSize-1]
	if header <= 3 {
		// Some tooling emits the bare recovery code instead of the
		// 27/28 convention.
		header += 27
	}
	compact := make([]byte, SignatureSize)
	compact[0] = header
	copy(compact[1:], raw[:SignatureSize-1])

	d := PersonalDigest(payload)
	pub, _, err := ecdsa.RecoverCompact(compact, d[:])
	if err != nil {
		return Address{}, fmt.Errorf("recover signer: %w", err)
	}
	return AddressOf(pub), nil
}

func parseSignature(signature string) ([]byte, error) {
	rest, ok := strings.CutPrefix(signature, "0x")
	if !ok {
		return nil, fmt.Errorf("signature %q: missing 0x prefix", signature)
	}
	if len(rest) != SignatureSize*2 {
		return nil, fmt.Errorf("signature %q: want %d hex characters, got %d", signature, SignatureSize*2, len(rest))
	}
	raw, err := hex.DecodeString(rest)
	if err != nil {
		return nil, fmt.Errorf("signature %q: %w", signature, err)
	}
	return raw, nil
}
