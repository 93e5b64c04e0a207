// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/herald-social/herald/announcement"
)

// Getter is the fragment of the content store the reader needs;
// store.Store satisfies it.
type Getter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Row is one decoded batch row: column name to value, int32 for INT32
// columns and string for BYTE_ARRAY columns.
type Row map[string]any

// Int32 returns the named INT32 column's value.
func (r Row) Int32(name string) (int32, bool) {
	v, ok := r[name].(int32)
	return v, ok
}

// String returns the named BYTE_ARRAY column's value.
func (r Row) String(name string) (string, bool) {
	v, ok := r[name].(string)
	return v, ok
}

// File is an open batch. A File reads one batch sequentially; open a
// separate File per goroutine for concurrent reads of the same bytes.
type File struct {
	pq     *parquet.File
	schema Schema
	typ    announcement.Type
	closed bool
}

// Open fetches the object at key through the store and opens it as a
// batch. Store failures, including store.ErrNotFound, propagate
// unchanged.
func Open(ctx context.Context, src Getter, key string) (*File, error) {
	data, err := src.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return OpenReaderAt(bytes.NewReader(data), int64(len(data)))
}

// OpenReaderAt opens a batch from any random-access byte source of
// the given size.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	pq, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	typ, schema, err := schemaOfFile(pq)
	if err != nil {
		return nil, err
	}
	return &File{pq: pq, schema: schema, typ: typ}, nil
}

// schemaOfFile matches the file against the known batch schemas by
// root name, then verifies the column layout so later decoding can
// trust positions.
func schemaOfFile(pq *parquet.File) (announcement.Type, Schema, error) {
	name := pq.Schema().Name()
	for t, s := range schemas {
		if s.Name != name {
			continue
		}
		fields := pq.Schema().Fields()
		if len(fields) != len(s.Columns) {
			return 0, Schema{}, fmt.Errorf("open batch: %s file has %d columns, want %d", name, len(fields), len(s.Columns))
		}
		for i, field := range fields {
			col := s.Columns[i]
			if field.Name() != col.Name {
				return 0, Schema{}, fmt.Errorf("open batch: column %d is %q, want %q", i, field.Name(), col.Name)
			}
			kind := field.Type().Kind()
			wrong := (col.Type == Int32 && kind != parquet.Int32) ||
				(col.Type == ByteArray && kind != parquet.ByteArray)
			if wrong {
				return 0, Schema{}, fmt.Errorf("open batch: column %q has kind %s, want %s", col.Name, kind, col.Type)
			}
		}
		s.Columns = slices.Clone(s.Columns)
		return t, s, nil
	}
	return 0, Schema{}, fmt.Errorf("open batch: schema %q is not an announcement batch", name)
}

// AnnouncementType returns the batch's single announcement type.
func (f *File) AnnouncementType() announcement.Type {
	return f.typ
}

// Rows returns the number of rows in the batch.
func (f *File) Rows() int64 {
	return f.pq.NumRows()
}

// Close marks the file closed. Idempotent. The underlying byte source
// belongs to the caller and is not touched.
func (f *File) Close() error {
	f.closed = true
	return nil
}

const readChunkRows = 64

// ForEachRow replays rows in storage order, which equals the order
// announcements entered the batch. A visit error aborts iteration and
// propagates unchanged.
func (f *File) ForEachRow(visit func(Row) error) error {
	if f.closed {
		return errors.New("batch file is closed")
	}
	buf := make([]parquet.Row, readChunkRows)
	for _, rg := range f.pq.RowGroups() {
		if err := f.visitGroup(rg, buf, visit); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) visitGroup(rg parquet.RowGroup, buf []parquet.Row, visit func(Row) error) error {
	rows := rg.Rows()
	defer rows.Close()
	for {
		n, err := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			row, decErr := f.decodeRow(buf[i])
			if decErr != nil {
				return decErr
			}
			if visitErr := visit(row); visitErr != nil {
				return visitErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read rows: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

func (f *File) decodeRow(pr parquet.Row) (Row, error) {
	out := make(Row, len(f.schema.Columns))
	for _, v := range pr {
		idx := v.Column()
		if idx < 0 || idx >= len(f.schema.Columns) {
			return nil, fmt.Errorf("row value for column %d outside schema", idx)
		}
		col := f.schema.Columns[idx]
		switch col.Type {
		case Int32:
			out[col.Name] = v.Int32()
		case ByteArray:
			// Copy out; the row reader reuses its buffers.
			out[col.Name] = string(v.ByteArray())
		}
	}
	if len(out) != len(f.schema.Columns) {
		return nil, fmt.Errorf("row has %d values, want %d", len(out), len(f.schema.Columns))
	}
	return out, nil
}

// ForEachAnnouncement replays the batch as typed signed
// announcements, the inverse of what the writer encoded.
func (f *File) ForEachAnnouncement(visit func(announcement.Signed) error) error {
	return f.ForEachRow(func(r Row) error {
		signed, err := decodeAnnouncement(f.typ, r)
		if err != nil {
			return err
		}
		return visit(signed)
	})
}

func decodeAnnouncement(t announcement.Type, r Row) (announcement.Signed, error) {
	if got, ok := r.Int32("announcementType"); !ok || got != int32(t) {
		return announcement.Signed{}, fmt.Errorf("row announcement type %d does not match batch type %s", got, t)
	}
	sig, ok := r.String("signature")
	if !ok {
		return announcement.Signed{}, errors.New("row missing signature column")
	}

	var a announcement.Announcement
	switch t {
	case announcement.TypeGraphChange:
		changeType, ok := r.Int32("changeType")
		if !ok {
			return announcement.Signed{}, errors.New("row missing changeType column")
		}
		createdAtRaw, ok := r.String("createdAt")
		if !ok {
			return announcement.Signed{}, errors.New("row missing createdAt column")
		}
		createdAt, err := strconv.ParseUint(createdAtRaw, 10, 64)
		if err != nil {
			return announcement.Signed{}, fmt.Errorf("row createdAt %q: %w", createdAtRaw, err)
		}
		fromID, _ := r.String("fromId")
		objectID, _ := r.String("objectId")
		a = &announcement.GraphChange{
			FromID:     announcement.UserID(fromID),
			ChangeType: announcement.ChangeType(changeType),
			ObjectID:   announcement.UserID(objectID),
			CreatedAt:  createdAt,
		}
	case announcement.TypeBroadcast:
		fromID, _ := r.String("fromId")
		url, _ := r.String("url")
		contentHash, _ := r.String("contentHash")
		a = announcement.NewBroadcast(announcement.UserID(fromID), url, contentHash)
	case announcement.TypeReply:
		fromID, _ := r.String("fromId")
		url, _ := r.String("url")
		contentHash, _ := r.String("contentHash")
		inReplyTo, _ := r.String("inReplyTo")
		a = announcement.NewReply(announcement.UserID(fromID), url, contentHash, announcement.URI(inReplyTo))
	case announcement.TypeReaction:
		fromID, _ := r.String("fromId")
		emoji, _ := r.String("emoji")
		inReplyTo, _ := r.String("inReplyTo")
		a = announcement.NewReaction(announcement.UserID(fromID), emoji, announcement.URI(inReplyTo))
	case announcement.TypeProfile:
		fromID, _ := r.String("fromId")
		url, _ := r.String("url")
		contentHash, _ := r.String("contentHash")
		a = announcement.NewProfile(announcement.UserID(fromID), url, contentHash)
	default:
		return announcement.Signed{}, &UnsupportedTypeError{Type: t}
	}
	return announcement.Signed{Announcement: a, Signature: sig}, nil
}

// Probe answers "might value occur in column" by testing the column's
// bloom filter blocks across all row groups. False positives are
// possible; false negatives are not. A column carrying no bloom data
// answers true, since membership cannot be ruled out. Probing a column
// outside the schema is an error.
func (f *File) Probe(column string, value any) (bool, error) {
	if f.closed {
		return false, errors.New("batch file is closed")
	}
	idx := -1
	var colType ColumnType
	for i, col := range f.schema.Columns {
		if col.Name == column {
			idx, colType = i, col.Type
			break
		}
	}
	if idx < 0 {
		return false, fmt.Errorf("no column %q in a %s batch", column, f.typ)
	}
	pv, err := probeValue(colType, value)
	if err != nil {
		return false, err
	}

	for _, rg := range f.pq.RowGroups() {
		filter := rg.ColumnChunks()[idx].BloomFilter()
		if filter == nil {
			return true, nil
		}
		ok, err := filter.Check(pv)
		if err != nil {
			return false, fmt.Errorf("bloom check %s: %w", column, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func probeValue(t ColumnType, value any) (parquet.Value, error) {
	switch t {
	case Int32:
		switch v := value.(type) {
		case int32:
			return parquet.Int32Value(v), nil
		case int:
			if v < math.MinInt32 || v > math.MaxInt32 {
				return parquet.Value{}, fmt.Errorf("probe value %d overflows INT32", v)
			}
			return parquet.Int32Value(int32(v)), nil
		case announcement.Type:
			return parquet.Int32Value(int32(v)), nil
		case announcement.ChangeType:
			return parquet.Int32Value(int32(v)), nil
		default:
			return parquet.Value{}, fmt.Errorf("probe value %T for an INT32 column", value)
		}
	case ByteArray:
		switch v := value.(type) {
		case string:
			return parquet.ByteArrayValue([]byte(v)), nil
		case []byte:
			return parquet.ByteArrayValue(v), nil
		case announcement.UserID:
			return parquet.ByteArrayValue([]byte(v)), nil
		case announcement.URI:
			return parquet.ByteArrayValue([]byte(v)), nil
		default:
			return parquet.Value{}, fmt.Errorf("probe value %T for a BYTE_ARRAY column", value)
		}
	default:
		return parquet.Value{}, fmt.Errorf("unknown column type %s", t)
	}
}
