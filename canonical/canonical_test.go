// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"bytes"
	"testing"
)

func TestMarshalSortsByKey(t *testing.T) {
	fields := []Field{
		{Key: "url", Value: "https://example.org/a"},
		{Key: "fromId", Value: "1"},
		{Key: "dsnpType", Value: "2"},
		{Key: "contentHash", Value: "0x12345"},
	}

	got := string(Marshal(fields))
	want := "contentHash0x12345dsnpType2fromId1urlhttps://example.org/a"
	if got != want {
		t.Errorf("Marshal = %q, want %q", got, want)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	fields := []Field{
		{Key: "fromId", Value: "0xabcd"},
		{Key: "createdAt", Value: "1653424146000"},
		{Key: "dsnpType", Value: "1"},
		{Key: "objectId", Value: "0x1234"},
		{Key: "changeType", Value: "1"},
	}

	first := Marshal(fields)
	second := Marshal(fields)
	if !bytes.Equal(first, second) {
		t.Errorf("Marshal not deterministic: %q != %q", first, second)
	}
}

func TestMarshalDoesNotMutateInput(t *testing.T) {
	fields := []Field{
		{Key: "b", Value: "2"},
		{Key: "a", Value: "1"},
	}

	Marshal(fields)

	if fields[0].Key != "b" || fields[1].Key != "a" {
		t.Errorf("Marshal reordered the caller's slice: %v", fields)
	}
}

func TestMarshalEmpty(t *testing.T) {
	if got := Marshal(nil); len(got) != 0 {
		t.Errorf("Marshal(nil) = %q, want empty", got)
	}
}

func TestMarshalNoDelimiters(t *testing.T) {
	// Keys and values concatenate directly. A value ending where the
	// next key begins must not introduce any separator byte.
	fields := []Field{
		{Key: "a", Value: "x"},
		{Key: "b", Value: "y"},
	}
	if got := string(Marshal(fields)); got != "axby" {
		t.Errorf("Marshal = %q, want %q", got, "axby")
	}
}

func TestMarshalByteOrder(t *testing.T) {
	// Sorting is by byte order, not any locale collation: uppercase
	// letters sort before lowercase.
	fields := []Field{
		{Key: "a", Value: "1"},
		{Key: "B", Value: "2"},
	}
	if got := string(Marshal(fields)); got != "B2a1" {
		t.Errorf("Marshal = %q, want %q", got, "B2a1")
	}
}

func TestUint(t *testing.T) {
	tests := []struct {
		value uint64
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{1653424146000, "1653424146000"},
		{18446744073709551615, "18446744073709551615"},
	}
	for _, test := range tests {
		if got := Uint(test.value); got != test.want {
			t.Errorf("Uint(%d) = %q, want %q", test.value, got, test.want)
		}
	}
}

func TestInt(t *testing.T) {
	if got := Int(2); got != "2" {
		t.Errorf("Int(2) = %q, want %q", got, "2")
	}
	if got := Int(-1); got != "-1" {
		t.Errorf("Int(-1) = %q, want %q", got, "-1")
	}
}
