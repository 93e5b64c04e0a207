// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package announcement

import (
	"fmt"

	"github.com/herald-social/herald/canonical"
)

// Type discriminates the announcement variants. The numeric values are
// fixed by the protocol and appear both in signing payloads (under the
// wire key "dsnpType") and in batch files (under the column name
// "announcementType").
type Type int32

const (
	TypeGraphChange Type = 1
	TypeBroadcast   Type = 2
	TypeReply       Type = 3
	TypeReaction    Type = 4
	TypeProfile     Type = 5
	TypeTombstone   Type = 6
)

// Valid reports whether t is one of the protocol's announcement types.
func (t Type) Valid() bool {
	return t >= TypeGraphChange && t <= TypeTombstone
}

func (t Type) String() string {
	switch t {
	case TypeGraphChange:
		return "graphChange"
	case TypeBroadcast:
		return "broadcast"
	case TypeReply:
		return "reply"
	case TypeReaction:
		return "reaction"
	case TypeProfile:
		return "profile"
	case TypeTombstone:
		return "tombstone"
	default:
		return fmt.Sprintf("type(%d)", int32(t))
	}
}

// ParseType converts a raw discriminant, as read from a batch column
// or an untrusted document, into a Type. Values outside the protocol
// set fail with *UnknownTypeError, never a default.
func ParseType(v int32) (Type, error) {
	t := Type(v)
	if !t.Valid() {
		return 0, &UnknownTypeError{Value: v}
	}
	return t, nil
}

// ChangeType distinguishes the two graph operations a GraphChange
// announcement can carry.
type ChangeType int32

const (
	ChangeTypeFollow   ChangeType = 1
	ChangeTypeUnfollow ChangeType = 2
)

// Valid reports whether c is a defined graph change operation.
func (c ChangeType) Valid() bool {
	return c == ChangeTypeFollow || c == ChangeTypeUnfollow
}

func (c ChangeType) String() string {
	switch c {
	case ChangeTypeFollow:
		return "follow"
	case ChangeTypeUnfollow:
		return "unfollow"
	default:
		return fmt.Sprintf("changeType(%d)", int32(c))
	}
}

// Announcement is the closed variant set. Each variant reports its
// discriminant and its canonical field projection; [SigningPayload]
// turns the projection into the exact bytes a signature covers.
type Announcement interface {
	// Type returns the variant discriminant.
	Type() Type
	// Fields returns the flat key/value projection used for canonical
	// serialization. Keys are protocol wire names; the discriminant
	// appears under "dsnpType". The signature is never part of the
	// projection.
	Fields() []canonical.Field
}

// Signed pairs an announcement with the signature over its canonical
// serialization. It is constructed once, after signing, and treated as
// immutable afterward.
type Signed struct {
	Announcement
	// Signature is "0x" followed by 130 hex characters: a compact
	// secp256k1 signature in r||s||v order.
	Signature string
}

// GraphChange announces a change to the social graph: FromID starts or
// stops following ObjectID.
type GraphChange struct {
	FromID     UserID
	ChangeType ChangeType
	ObjectID   UserID
	// CreatedAt is milliseconds since the Unix epoch. It orders
	// follow/unfollow flips for the same edge.
	CreatedAt uint64
}

func (g *GraphChange) Type() Type { return TypeGraphChange }

func (g *GraphChange) Fields() []canonical.Field {
	return []canonical.Field{
		{Key: "changeType", Value: canonical.Int(int64(g.ChangeType))},
		{Key: "createdAt", Value: canonical.Uint(g.CreatedAt)},
		{Key: "dsnpType", Value: canonical.Int(int64(TypeGraphChange))},
		{Key: "fromId", Value: string(g.FromID)},
		{Key: "objectId", Value: string(g.ObjectID)},
	}
}

// Broadcast announces new top-level content hosted at URL, identified
// by the Keccak-256 hash of its bytes.
type Broadcast struct {
	FromID      UserID
	URL         string
	ContentHash string
}

func (b *Broadcast) Type() Type { return TypeBroadcast }

func (b *Broadcast) Fields() []canonical.Field {
	return []canonical.Field{
		{Key: "contentHash", Value: b.ContentHash},
		{Key: "dsnpType", Value: canonical.Int(int64(TypeBroadcast))},
		{Key: "fromId", Value: string(b.FromID)},
		{Key: "url", Value: b.URL},
	}
}

// Reply announces content responding to an earlier announcement,
// referenced by InReplyTo.
type Reply struct {
	FromID      UserID
	URL         string
	ContentHash string
	InReplyTo   URI
}

func (r *Reply) Type() Type { return TypeReply }

func (r *Reply) Fields() []canonical.Field {
	return []canonical.Field{
		{Key: "contentHash", Value: r.ContentHash},
		{Key: "dsnpType", Value: canonical.Int(int64(TypeReply))},
		{Key: "fromId", Value: string(r.FromID)},
		{Key: "inReplyTo", Value: string(r.InReplyTo)},
		{Key: "url", Value: r.URL},
	}
}

// Reaction announces an emoji response to an earlier announcement.
type Reaction struct {
	FromID    UserID
	Emoji     string
	InReplyTo URI
}

func (r *Reaction) Type() Type { return TypeReaction }

func (r *Reaction) Fields() []canonical.Field {
	return []canonical.Field{
		{Key: "dsnpType", Value: canonical.Int(int64(TypeReaction))},
		{Key: "emoji", Value: r.Emoji},
		{Key: "fromId", Value: string(r.FromID)},
		{Key: "inReplyTo", Value: string(r.InReplyTo)},
	}
}

// Profile announces profile content for the sending user. The newest
// valid Profile announcement replaces earlier ones.
type Profile struct {
	FromID      UserID
	URL         string
	ContentHash string
}

func (p *Profile) Type() Type { return TypeProfile }

func (p *Profile) Fields() []canonical.Field {
	return []canonical.Field{
		{Key: "contentHash", Value: p.ContentHash},
		{Key: "dsnpType", Value: canonical.Int(int64(TypeProfile))},
		{Key: "fromId", Value: string(p.FromID)},
		{Key: "url", Value: p.URL},
	}
}

// Tombstone retracts an earlier signed announcement, identified by its
// signature. Only content-bearing announcements can be retracted;
// TargetType must be Broadcast, Reply, or Reaction.
type Tombstone struct {
	FromID          UserID
	TargetType      Type
	TargetSignature string
	// CreatedAt is milliseconds since the Unix epoch.
	CreatedAt uint64
}

func (t *Tombstone) Type() Type { return TypeTombstone }

func (t *Tombstone) Fields() []canonical.Field {
	return []canonical.Field{
		{Key: "createdAt", Value: canonical.Uint(t.CreatedAt)},
		{Key: "dsnpType", Value: canonical.Int(int64(TypeTombstone))},
		{Key: "fromId", Value: string(t.FromID)},
		{Key: "targetAnnouncementType", Value: canonical.Int(int64(t.TargetType))},
		{Key: "targetSignature", Value: t.TargetSignature},
	}
}

/// SigningPayload returns the canonical serialization of a: the exact
// bytes that are signed and later verified. Deterministic for equal
// field values.
func SigningPayload(a Announcement) []byte {
	return canonical.Marshal(a.Fields())
}

// From returns the user an announcement speaks for. Every variant
// carries a fromId field.
func From(a Announcement) UserID {
	for _, f := range a.Fields() {
		if f.Key == "fromId" {
			return UserID(f.Value)
		}
	}
	return ""
}

// Factories assemble announcements without validating them, so callers
// can build and serialize values freely before deciding to sign.
// Validate before signing input you do not control.

// NewFollowGraphChange builds a GraphChange that follows objectID.
// createdAt is milliseconds since the Unix epoch.
func NewFollowGraphChange(fromID, objectID UserID, createdAt uint64) *GraphChange {
	return &GraphChange{
		FromID:     fromID,
		ChangeType: ChangeTypeFollow,
		ObjectID:   objectID,
		CreatedAt:  createdAt,
	}
}

// NewUnfollowGraphChange builds a GraphChange that unfollows objectID.
func NewUnfollowGraphChange(fromID, objectID UserID, createdAt uint64) *GraphChange {
	return &GraphChange{
		FromID:     fromID,
		ChangeType: ChangeTypeUnfollow,
		ObjectID:   objectID,
		CreatedAt:  createdAt,
	}
}

// NewBroadcast builds a Broadcast for content hosted at url.
func NewBroadcast(fromID UserID, url, contentHash string) *Broadcast {
	return &Broadcast{FromID: fromID, URL: url, ContentHash: contentHash}
}

// NewReply builds a Reply to the announcement referenced by inReplyTo.
func NewReply(fromID UserID, url, contentHash string, inReplyTo URI) *Reply {
	return &Reply{FromID: fromID, URL: url, ContentHash: contentHash, InReplyTo: inReplyTo}
}

// NewReaction builds a Reaction to the announcement referenced by
// inReplyTo.
func NewReaction(fromID UserID, emoji string, inReplyTo URI) *Reaction {
	return &Reaction{FromID: fromID, Emoji: emoji, InReplyTo: inReplyTo}
}

// NewProfile builds a Profile announcement for content hosted at url.
func NewProfile(fromID UserID, url, contentHash string) *Profile {
	return &Profile{FromID: fromID, URL: url, ContentHash: contentHash}
}

// NewTombstone builds a Tombstone retracting the announcement that
// carries targetSignature.
func NewTombstone(fromID UserID, targetType Type, targetSignature string, createdAt uint64) *Tombstone {
	return &Tombstone{
		FromID:          fromID,
		TargetType:      targetType,
		TargetSignature: targetSignature,
		CreatedAt:       createdAt,
	}
}
