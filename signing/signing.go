// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package signing

import (
	"context"
	"strconv"

	"github.com/herald-social/herald/digest"
)

// Signer signs canonical announcement payloads. Implementations may
// hold a local key ([KeySigner]) or proxy to an external holder; the
// context covers the latter's I/O.
type Signer interface {
	// Sign returns the signature over payload as "0x" followed by
	// 130 hex characters (r||s||v).
	Sign(ctx context.Context, payload []byte) (string, error)
	// Address returns the identity that Sign's signatures recover to.
	Address() Address
}

// Recoverer recovers the signer identity from a payload and its
// signature. Recovery is pure computation; implementations must not
// perform I/O.
type Recoverer interface {
	RecoverSigner(payload []byte, signature string) (Address, error)
}

const personalPrefix = "\x19Ethereum Signed Message:\n"

// PersonalDigest returns the digest that signatures actually cover:
// Keccak-256 over the personal-message prefix, the decimal length of
// payload, and payload itself.
func PersonalDigest(payload []byte) digest.Digest {
	h := digest.New()
	h.Write([]byte(personalPrefix))
	h.Write([]byte(strconv.Itoa(len(payload))))
	h.Write(payload)
	var d digest.Digest
	h.Sum(d[:0])
	return d
}
