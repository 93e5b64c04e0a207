// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package signing defines how announcements are signed and how signer
// identities are recovered from signatures.
//
// The core library never touches key material. It consumes two small
// contracts: [Signer], which turns a canonical signing payload into a
// signature string, and [Recoverer], which turns a payload plus
// signature back into the signer's [Address]. Deployments that keep
// keys elsewhere (wallets, HSMs, remote services) implement Signer
// against that backend; [KeySigner] is the in-process implementation
// over a raw secp256k1 key.
//
// The signature scheme is the Ethereum personal-message convention:
// the payload is prefixed with "\x19Ethereum Signed Message:\n" and
// its decimal byte length, the whole string is Keccak-256 hashed, and
// the hash is signed with secp256k1. Signatures travel as "0x" plus
// 130 hex characters encoding r||s||v, with v normally 27 or 28
// (recovery also tolerates the bare 0/1 form some tooling emits).
// Identities are 20-byte addresses: the last 20 bytes of the
// Keccak-256 hash of the uncompressed public key.
package signing
