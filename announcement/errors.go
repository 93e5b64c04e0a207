// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package announcement

import (
	"errors"
	"fmt"
)

// FieldError reports a structural validation failure, naming the field
// that failed and why. Field names are the protocol wire names, so a
// message like "broadcast announcement: contentHash: ..." points at
// the serialized field the caller must fix.
type FieldError struct {
	// Type is the variant under validation, or zero when the variant
	// is not yet known (a malformed signature string, for example).
	Type   Type
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Type == 0 {
		return fmt.Sprintf("announcement: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s announcement: %s: %s", e.Type, e.Field, e.Reason)
}

// IsFieldError reports whether err is (or wraps) a *FieldError, and
// returns it for field-level branching.
func IsFieldError(err error) (*FieldError, bool) {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr, true
	}
	return nil, false
}

// UnknownTypeError reports a discriminant outside the protocol's
// announcement type set. It is a distinct error from FieldError so
// callers can tell wrong-variant input apart from malformed fields.
type UnknownTypeError struct {
	Value int32
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown announcement type %d", e.Value)
}

// IsUnknownTypeError reports whether err is (or wraps) an
// *UnknownTypeError.
func IsUnknownTypeError(err error) (*UnknownTypeError, bool) {
	var typeErr *UnknownTypeError
	if errors.As(err, &typeErr) {
		return typeErr, true
	}
	return nil, false
}
