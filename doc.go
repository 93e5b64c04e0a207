// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package herald is a client library for a decentralized social
// network protocol built on signed announcements and content-addressed
// batch files.
//
// The subpackages are usable on their own: announcement models the
// six announcement variants and their canonical serialization,
// signing produces and recovers recoverable secp256k1 signatures over
// that serialization, batch encodes homogeneous announcement
// collections as columnar Parquet files with bloom-filter indexes,
// and store persists the resulting objects. This package ties them
// together behind a Client so an application wires its collaborators
// once:
//
//	signer, err := signing.GenerateKeySigner()
//	...
//	client := herald.New(herald.Options{
//		Store:  st,
//		Signer: signer,
//	})
//	signed, err := client.SignAnnouncement(ctx, announcement.NewBroadcast(from, url, hash))
//	...
//	artifact, err := client.PublishBatch(ctx, batch.NewSliceSource(signed))
//
// There is no global mutable configuration. A process that wants a
// shared client constructs one at startup and installs it with
// SetDefault; nothing in this module reaches for it implicitly.
package herald
