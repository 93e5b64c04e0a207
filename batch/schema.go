// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"slices"

	"github.com/parquet-go/parquet-go"

	"github.com/herald-social/herald/announcement"
)

// ColumnType is a column's physical storage type. Batch files use
// exactly two: 32-bit integers for the discriminant and graph change
// enums, byte arrays for everything else.
type ColumnType uint8

const (
	Int32 ColumnType = iota + 1
	ByteArray
)

func (t ColumnType) String() string {
	switch t {
	case Int32:
		return "INT32"
	case ByteArray:
		return "BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// Column is one field of a batch schema.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the fixed column layout for one announcement type.
// Columns are sorted by name; that order is also the file's column
// order.
type Schema struct {
	Name    string
	Columns []Column
}

// Column order within each table is lexicographic by name. The batch
// writer indexes columns by position, so the tables, the Parquet
// schema, and encodeRow must all agree on this order.
var schemas = map[announcement.Type]Schema{
	announcement.TypeGraphChange: {
		Name: "GraphChange",
		Columns: []Column{
			{Name: "announcementType", Type: Int32},
			{Name: "changeType", Type: Int32},
			{Name: "createdAt", Type: ByteArray},
			{Name: "fromId", Type: ByteArray},
			{Name: "objectId", Type: ByteArray},
			{Name: "signature", Type: ByteArray},
		},
	},
	announcement.TypeBroadcast: {
		Name: "Broadcast",
		Columns: []Column{
			{Name: "announcementType", Type: Int32},
			{Name: "contentHash", Type: ByteArray},
			{Name: "fromId", Type: ByteArray},
			{Name: "signature", Type: ByteArray},
			{Name: "url", Type: ByteArray},
		},
	},
	announcement.TypeReply: {
		Name: "Reply",
		Columns: []Column{
			{Name: "announcementType", Type: Int32},
			{Name: "contentHash", Type: ByteArray},
			{Name: "fromId", Type: ByteArray},
			{Name: "inReplyTo", Type: ByteArray},
			{Name: "signature", Type: ByteArray},
			{Name: "url", Type: ByteArray},
		},
	},
	announcement.TypeReaction: {
		Name: "Reaction",
		Columns: []Column{
			{Name: "announcementType", Type: Int32},
			{Name: "emoji", Type: ByteArray},
			{Name: "fromId", Type: ByteArray},
			{Name: "inReplyTo", Type: ByteArray},
			{Name: "signature", Type: ByteArray},
		},
	},
	announcement.TypeProfile: {
		Name: "Profile",
		Columns: []Column{
			{Name: "announcementType", Type: Int32},
			{Name: "contentHash", Type: ByteArray},
			{Name: "fromId", Type: ByteArray},
			{Name: "signature", Type: ByteArray},
			{Name: "url", Type: ByteArray},
		},
	},
}

// Bloom-filtered columns per type: the author always, plus the reply
// target for replies, plus the emoji and reply target for reactions.
var bloomSpecs = map[announcement.Type][]string{
	announcement.TypeGraphChange: {"fromId"},
	announcement.TypeBroadcast:   {"fromId"},
	announcement.TypeReply:       {"fromId", "inReplyTo"},
	announcement.TypeReaction:    {"emoji", "fromId", "inReplyTo"},
	announcement.TypeProfile:     {"fromId"},
}

// SchemaFor returns the column schema for batches of type t. The
// lookup is total over the five batchable types; Tombstone and
// anything outside the announcement set fail with
// *UnsupportedTypeError. The returned schema is the caller's copy.
func SchemaFor(t announcement.Type) (Schema, error) {
	s, ok := schemas[t]
	if !ok {
		return Schema{}, &UnsupportedTypeError{Type: t}
	}
	s.Columns = slices.Clone(s.Columns)
	return s, nil
}

// BloomSpecFor returns the names of the bloom-filtered columns for
// batches of type t, in column order. Same domain as SchemaFor.
func BloomSpecFor(t announcement.Type) ([]string, error) {
	spec, ok := bloomSpecs[t]
	if !ok {
		return nil, &UnsupportedTypeError{Type: t}
	}
	return slices.Clone(spec), nil
}

// parquetSchemaOf converts a batch schema to the Parquet form. Group
// fields come out sorted by name, matching the table order.
func parquetSchemaOf(s Schema) *parquet.Schema {
	group := make(parquet.Group, len(s.Columns))
	for _, col := range s.Columns {
		switch col.Type {
		case Int32:
			group[col.Name] = parquet.Int(32)
		case ByteArray:
			group[col.Name] = parquet.String()
		}
	}
	return parquet.NewSchema(s.Name, group)
}
