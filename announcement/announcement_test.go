// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package announcement

import (
	"bytes"
	"testing"
)

func TestSigningPayloadBroadcastExample(t *testing.T) {
	// Factories and the serializer pass values through untouched;
	// only validators enforce field formats. The short content hash
	// here is deliberate.
	b := NewBroadcast("1", "https://example.org/a", "0x12345")
	got := string(SigningPayload(b))
	want := "contentHash0x12345dsnpType2fromId1urlhttps://example.org/a"
	if got != want {
		t.Fatalf("payload = %q, want %q", got, want)
	}
}

func TestSigningPayloadPerVariant(t *testing.T) {
	cases := []struct {
		name string
		a    Announcement
		want string
	}{
		{
			name: "follow graph change",
			a:    NewFollowGraphChange("12", "34", 1700000000000),
			want: "changeType1createdAt1700000000000dsnpType1fromId12objectId34",
		},
		{
			name: "unfollow graph change",
			a:    NewUnfollowGraphChange("12", "34", 1700000000001),
			want: "changeType2createdAt1700000000001dsnpType1fromId12objectId34",
		},
		{
			name: "reply",
			a:    NewReply("2", "https://example.org/r", "0xbeef", "dsnp://1/0xfeed"),
			want: "contentHash0xbeefdsnpType3fromId2inReplyTodsnp://1/0xfeedurlhttps://example.org/r",
		},
		{
			name: "reaction",
			a:    NewReaction("9", "❤", "dsnp://1/0xfeed"),
			want: "dsnpType4emoji❤fromId9inReplyTodsnp://1/0xfeed",
		},
		{
			name: "profile",
			a:    NewProfile("7", "https://example.org/p", "0xcafe"),
			want: "contentHash0xcafedsnpType5fromId7urlhttps://example.org/p",
		},
		{
			name: "tombstone",
			a:    NewTombstone("3", TypeBroadcast, "0xdead", 42),
			want: "createdAt42dsnpType6fromId3targetAnnouncementType2targetSignature0xdead",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(SigningPayload(tc.a)); got != tc.want {
				t.Fatalf("payload = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSigningPayloadDeterministic(t *testing.T) {
	a := NewReply("0xab", "https://example.org/x", "0x01", "dsnp://2/0x02")
	first := SigningPayload(a)
	second := SigningPayload(a)
	if !bytes.Equal(first, second) {
		t.Fatalf("payloads differ across calls: %q vs %q", first, second)
	}
}

func TestSignedExcludesSignatureFromPayload(t *testing.T) {
	b := NewBroadcast("1", "https://example.org/a", "0x12345")
	s := Signed{Announcement: b, Signature: "0xffff"}
	if got, want := string(SigningPayload(s)), string(SigningPayload(b)); got != want {
		t.Fatalf("signed payload = %q, want unsigned payload %q", got, want)
	}
}

func TestTypeValues(t *testing.T) {
	// Wire constants; renumbering breaks every existing signature.
	cases := []struct {
		t    Type
		want int32
	}{
		{TypeGraphChange, 1},
		{TypeBroadcast, 2},
		{TypeReply, 3},
		{TypeReaction, 4},
		{TypeProfile, 5},
		{TypeTombstone, 6},
	}
	for _, tc := range cases {
		if int32(tc.t) != tc.want {
			t.Errorf("%s = %d, want %d", tc.t, int32(tc.t), tc.want)
		}
	}
	if int32(ChangeTypeFollow) != 1 || int32(ChangeTypeUnfollow) != 2 {
		t.Errorf("change type values = %d/%d, want 1/2", ChangeTypeFollow, ChangeTypeUnfollow)
	}
}

func TestParseType(t *testing.T) {
	for v := int32(1); v <= 6; v++ {
		parsed, err := ParseType(v)
		if err != nil {
			t.Fatalf("ParseType(%d): %v", v, err)
		}
		if int32(parsed) != v {
			t.Fatalf("ParseType(%d) = %d", v, parsed)
		}
	}
	for _, v := range []int32{0, 7, -1, 255} {
		_, err := ParseType(v)
		if err == nil {
			t.Fatalf("ParseType(%d) succeeded, want error", v)
		}
		typeErr, ok := IsUnknownTypeError(err)
		if !ok {
			t.Fatalf("ParseType(%d) error %T, want *UnknownTypeError", v, err)
		}
		if typeErr.Value != v {
			t.Fatalf("UnknownTypeError.Value = %d, want %d", typeErr.Value, v)
		}
	}
}

func TestVariantTypes(t *testing.T) {
	cases := []struct {
		a    Announcement
		want Type
	}{
		{&GraphChange{}, TypeGraphChange},
		{&Broadcast{}, TypeBroadcast},
		{&Reply{}, TypeReply},
		{&Reaction{}, TypeReaction},
		{&Profile{}, TypeProfile},
		{&Tombstone{}, TypeTombstone},
	}
	for _, tc := range cases {
		if got := tc.a.Type(); got != tc.want {
			t.Errorf("%T.Type() = %v, want %v", tc.a, got, tc.want)
		}
	}
}
