// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package announcement

import (
	"unicode/utf8"
)

// Shared failure reasons. Validation is fail-fast: the first field
// that fails is the one reported.
const (
	reasonUserID      = "must be a decimal id or 0x followed by 1-16 hex characters"
	reasonContentHash = "must be 0x followed by 64 hex characters"
	reasonSignature   = "must be 0x followed by 130 hex characters"
	reasonReplyURI    = "must be a dsnp://<user-id>/<content-hash> reference"
	reasonTimestamp   = "must be a positive millisecond timestamp"
)

// Validate checks the structural invariants of a. It dispatches on the
// concrete variant; a nil announcement or one outside the closed set
// fails with *UnknownTypeError rather than falling through to any
// default.
func Validate(a Announcement) error {
	switch v := a.(type) {
	case *GraphChange:
		return v.Validate()
	case *Broadcast:
		return v.Validate()
	case *Reply:
		return v.Validate()
	case *Reaction:
		return v.Validate()
	case *Profile:
		return v.Validate()
	case *Tombstone:
		return v.Validate()
	case nil:
		return &UnknownTypeError{Value: 0}
	default:
		return &UnknownTypeError{Value: int32(a.Type())}
	}
}

// ValidateSigned requires a well-formed signature string before
// structural validation of the payload. It checks syntax only;
// cryptographic verification needs a recoverer over the signing
// payload.
func ValidateSigned(s Signed) error {
	if !ValidSignature(s.Signature) {
		fieldErr := &FieldError{Field: "signature", Reason: reasonSignature}
		if s.Announcement != nil {
			fieldErr.Type = s.Announcement.Type()
		}
		return fieldErr
	}
	return Validate(s.Announcement)
}

func (g *GraphChange) Validate() error {
	if !g.FromID.Valid() {
		return &FieldError{Type: TypeGraphChange, Field: "fromId", Reason: reasonUserID}
	}
	if !g.ChangeType.Valid() {
		return &FieldError{Type: TypeGraphChange, Field: "changeType", Reason: "must be follow (1) or unfollow (2)"}
	}
	if !g.ObjectID.Valid() {
		return &FieldError{Type: TypeGraphChange, Field: "objectId", Reason: reasonUserID}
	}
	if g.CreatedAt == 0 {
		return &FieldError{Type: TypeGraphChange, Field: "createdAt", Reason: reasonTimestamp}
	}
	return nil
}

func (b *Broadcast) Validate() error {
	if !b.FromID.Valid() {
		return &FieldError{Type: TypeBroadcast, Field: "fromId", Reason: reasonUserID}
	}
	if !ValidContentHash(b.ContentHash) {
		return &FieldError{Type: TypeBroadcast, Field: "contentHash", Reason: reasonContentHash}
	}
	// URL content is not constrained here; content fetching and
	// activity-content checks live outside the model.
	return nil
}

func (r *Reply) Validate() error {
	if !r.FromID.Valid() {
		return &FieldError{Type: TypeReply, Field: "fromId", Reason: reasonUserID}
	}
	if !ValidContentHash(r.ContentHash) {
		return &FieldError{Type: TypeReply, Field: "contentHash", Reason: reasonContentHash}
	}
	if !r.InReplyTo.Valid() {
		return &FieldError{Type: TypeReply, Field: "inReplyTo", Reason: reasonReplyURI}
	}
	return nil
}

func (r *Reaction) Validate() error {
	if !r.FromID.Valid() {
		return &FieldError{Type: TypeReaction, Field: "fromId", Reason: reasonUserID}
	}
	if !validEmoji(r.Emoji) {
		return &FieldError{Type: TypeReaction, Field: "emoji", Reason: "must be one or more emoji code points"}
	}
	if !r.InReplyTo.Valid() {
		return &FieldError{Type: TypeReaction, Field: "inReplyTo", Reason: reasonReplyURI}
	}
	return nil
}

func (p *Profile) Validate() error {
	if !p.FromID.Valid() {
		return &FieldError{Type: TypeProfile, Field: "fromId", Reason: reasonUserID}
	}
	if !ValidContentHash(p.ContentHash) {
		return &FieldError{Type: TypeProfile, Field: "contentHash", Reason: reasonContentHash}
	}
	return nil
}

func (t *Tombstone) Validate() error {
	if !t.FromID.Valid() {
		return &FieldError{Type: TypeTombstone, Field: "fromId", Reason: reasonUserID}
	}
	switch t.TargetType {
	case TypeBroadcast, TypeReply, TypeReaction:
	default:
		return &FieldError{Type: TypeTombstone, Field: "targetAnnouncementType", Reason: "must be broadcast (2), reply (3), or reaction (4)"}
	}
	if !ValidSignature(t.TargetSignature) {
		return &FieldError{Type: TypeTombstone, Field: "targetSignature", Reason: reasonSignature}
	}
	if t.CreatedAt == 0 {
		return &FieldError{Type: TypeTombstone, Field: "createdAt", Reason: reasonTimestamp}
	}
	return nil
}

// validEmoji reports whether s is a non-empty, well-formed UTF-8
// string whose code points all fall in the emoji ranges U+2000-U+2BFF,
// U+E000-U+FFFF, U+1F000-U+FFFFF. The UTF-8 check matters because
// decoding garbage yields U+FFFD, which sits inside an allowed range.
func validEmoji(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 0x2000 && r <= 0x2BFF:
		case r >= 0xE000 && r <= 0xFFFF:
		case r >= 0x1F000 && r <= 0xFFFFF:
		default:
			return false
		}
	}
	return true
}
