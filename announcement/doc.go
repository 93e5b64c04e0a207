// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package announcement defines the protocol's announcement model: the
// closed set of typed social actions that users sign and publish.
//
// Six variants exist, discriminated by an integer [Type]:
//
//   - [GraphChange]: follow or unfollow another user
//   - [Broadcast]: new top-level content at an external URL
//   - [Reply]: content responding to an earlier announcement
//   - [Reaction]: an emoji response to an earlier announcement
//   - [Profile]: profile content for the sending user
//   - [Tombstone]: retraction of an earlier signed announcement
//
// An announcement is signed over its canonical serialization, produced
// by [SigningPayload]: the variant's fields as a flat key/value
// projection, keys sorted lexicographically, values concatenated with
// no delimiters (see package canonical). The discriminant serializes
// under the wire key "dsnpType". A signed announcement plus its
// signature string is a [Signed], which is what batch files carry.
//
// Construction and validation are deliberately separate. Factories
// such as [NewBroadcast] assemble values without checking them, so
// callers can build and serialize test or in-progress announcements
// freely. [Validate] and the per-variant Validate methods enforce the
// structural invariants (identifier formats, hex lengths, emoji code
// point ranges, enum membership) and report failures as [FieldError]
// values naming the offending field. [ValidateSigned] additionally
// requires a well-formed signature string before payload validation.
//
// Content attached to Broadcast, Reply, and Profile announcements by
// URL is out of scope here: the model validates the content hash
// format, not the content behind the URL.
package announcement
