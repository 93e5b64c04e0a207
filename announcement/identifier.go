// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package announcement

import (
	"fmt"
	"strconv"
	"strings"
)

// UserID identifies a user. Two spellings are well formed: a decimal
// integer that fits in 64 bits, or "0x" followed by 1 to 16 hex
// digits. Both spellings of the same number are distinct strings and
// serialize as written; the protocol does not normalize them.
type UserID string

// Valid reports whether id is a well-formed user identifier.
func (id UserID) Valid() bool {
	s := string(id)
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		if len(rest) < 1 || len(rest) > 16 {
			return false
		}
		return isHex(rest)
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// URI references a previously published announcement by author and
// content hash: "dsnp://<user-id>/<content-hash>". Reply and Reaction
// announcements use it as their InReplyTo target.
type URI string

const uriScheme = "dsnp://"

// NewURI builds the reference for the announcement by user whose
// content hash is contentHash.
func NewURI(user UserID, contentHash string) URI {
	return URI(uriScheme + string(user) + "/" + contentHash)
}

// Parse splits u into its author and content hash, validating both.
func (u URI) Parse() (user UserID, contentHash string, err error) {
	rest, ok := strings.CutPrefix(string(u), uriScheme)
	if !ok {
		return "", "", fmt.Errorf("announcement uri %q: missing %s scheme", u, uriScheme)
	}
	idPart, hashPart, ok := strings.Cut(rest, "/")
	if !ok {
		return "", "", fmt.Errorf("announcement uri %q: want <user-id>/<content-hash>", u)
	}
	if !UserID(idPart).Valid() {
		return "", "", fmt.Errorf("announcement uri %q: malformed user id %q", u, idPart)
	}
	if !ValidContentHash(hashPart) {
		return "", "", fmt.Errorf("announcement uri %q: malformed content hash %q", u, hashPart)
	}
	return UserID(idPart), hashPart, nil
}

// Valid reports whether u parses cleanly.
func (u URI) Valid() bool {
	_, _, err := u.Parse()
	return err == nil
}

// ValidContentHash reports whether s is "0x" followed by 64 hex
// characters, the wire form of a Keccak-256 digest. Hex case is not
// significant.
func ValidContentHash(s string) bool {
	return validPrefixedHex(s, 64)
}

// ValidSignature reports whether s is "0x" followed by 130 hex
// characters: a 65-byte compact signature in r||s||v order.
func ValidSignature(s string) bool {
	return validPrefixedHex(s, 130)
}

func validPrefixedHex(s string, digits int) bool {
	rest, ok := strings.CutPrefix(s, "0x")
	return ok && len(rest) == digits && isHex(rest)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
