// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package herald

import "sync/atomic"

var defaultClient atomic.Pointer[Client]

// SetDefault installs c as the process-wide client returned by
// Default. Call it once at startup, after wiring the client
// explicitly; nothing in this module installs or consults a default
// on its own.
func SetDefault(c *Client) {
	defaultClient.Store(c)
}

// Default returns the client installed by SetDefault, or nil if none
// has been installed.
func Default() *Client {
	return defaultClient.Load()
}
