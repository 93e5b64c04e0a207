// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"errors"
	"fmt"

	"github.com/herald-social/herald/announcement"
)

// ErrEmptyBatch reports a source that finished before yielding a
// single announcement. A batch represents at least one announcement;
// nothing is written when this is returned.
var ErrEmptyBatch = errors.New("empty batch: source yielded no announcements")

// MixedTypeError reports a source element whose type differs from the
// batch type pinned by the first element. The partial destination is
// discarded; nothing usable exists at the key.
type MixedTypeError struct {
	Want announcement.Type
	Got  announcement.Type
	// Index is the zero-based position of the offending element in
	// the source.
	Index int64
}

func (e *MixedTypeError) Error() string {
	return fmt.Sprintf("mixed batch: announcement %d is %s, batch is %s", e.Index, e.Got, e.Want)
}

// IsMixedTypeError reports whether err is (or wraps) a
// *MixedTypeError.
func IsMixedTypeError(err error) (*MixedTypeError, bool) {
	var mixedErr *MixedTypeError
	if errors.As(err, &mixedErr) {
		return mixedErr, true
	}
	return nil, false
}

// UnsupportedTypeError reports a schema or bloom lookup for a type
// that is never batched: Tombstone, or a value outside the
// announcement type set entirely.
type UnsupportedTypeError struct {
	Type announcement.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported announcement type for batching: %s", e.Type)
}

// IsUnsupportedTypeError reports whether err is (or wraps) an
// *UnsupportedTypeError.
func IsUnsupportedTypeError(err error) (*UnsupportedTypeError, bool) {
	var typeErr *UnsupportedTypeError
	if errors.As(err, &typeErr) {
		return typeErr, true
	}
	return nil, false
}
