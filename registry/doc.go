// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry answers whether a signing key may act for a user.
//
// Announcements carry a fromId naming a user and a signature naming a
// key; the link between the two lives off to the side, in whatever
// identity registry a deployment trusts. Resolver is the seam for
// that lookup. Static is a complete in-memory implementation for
// tests and for deployments that manage the key/user mapping
// themselves; registries backed by remote systems implement the same
// interface.
package registry
