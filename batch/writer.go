// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/herald-social/herald/announcement"
	"github.com/herald-social/herald/canonical"
	"github.com/herald-social/herald/digest"
)

// Compression selects the Parquet page codec. It shapes the stored
// bytes and therefore the content hash: the same announcements written
// under two codecs are two distinct artifacts.
type Compression uint8

const (
	CompressionSnappy Compression = iota
	CompressionUncompressed
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionSnappy:
		return "snappy"
	case CompressionUncompressed:
		return "uncompressed"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression converts a configuration string into a codec
// selection. Empty means the snappy default.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "snappy":
		return CompressionSnappy, nil
	case "uncompressed", "none":
		return CompressionUncompressed, nil
	case "gzip":
		return CompressionGzip, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown batch compression %q (want snappy, uncompressed, gzip, zstd, or lz4)", s)
	}
}

func (c Compression) codec() (compress.Codec, error) {
	switch c {
	case CompressionSnappy:
		return &parquet.Snappy, nil
	case CompressionUncompressed:
		return &parquet.Uncompressed, nil
	case CompressionGzip:
		return &parquet.Gzip, nil
	case CompressionZstd:
		return &parquet.Zstd, nil
	case CompressionLZ4:
		return &parquet.Lz4Raw, nil
	default:
		return nil, fmt.Errorf("unknown batch compression %d", c)
	}
}

// DefaultBloomBits is the split-block bloom filter size in bits per
// indexed value when no option overrides it.
const DefaultBloomBits = 10

type options struct {
	compression     Compression
	bloomBits       uint
	maxRowGroupRows int64
	logger          *slog.Logger
}

// Option adjusts how a batch is written.
type Option func(*options)

// WithCompression selects the Parquet page codec.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithBloomBits sets the bloom filter size in bits per indexed value.
// More bits lower the false positive rate at the cost of footer size.
func WithBloomBits(bits uint) Option {
	return func(o *options) {
		if bits > 0 {
			o.bloomBits = bits
		}
	}
}

// WithMaxRowGroupRows caps the number of rows per row group, bounding
// writer memory. Zero keeps the library default.
func WithMaxRowGroupRows(n int64) Option {
	return func(o *options) { o.maxRowGroupRows = n }
}

// WithLogger directs the writer's debug logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Artifact describes a written batch. ContentHash is the batch's
// canonical identity: the Keccak-256 digest of the stored bytes,
// independent of where they landed. URI is where this copy landed.
type Artifact struct {
	URI         string
	ContentHash string
	Type        announcement.Type
	Rows        int64
}

// Sink is the fragment of the content store the writer needs;
// store.Store satisfies it. PutStream must discard everything if the
// callback fails.
type Sink interface {
	PutStream(ctx context.Context, key string, write func(io.Writer) error) (string, error)
}

// hashingTap forwards writes to the destination and feeds every byte
// actually written to the digest, in order, so the content hash covers
// exactly the stored bytes.
type hashingTap struct {
	w io.Writer
	h hash.Hash
	n int64
}

func (t *hashingTap) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if n > 0 {
		t.h.Write(p[:n])
		t.n += int64(n)
	}
	return n, err
}

// Create writes one batch of homogeneous announcements pulled from src
// to the destination key.
//
// The source is pulled exactly once, in order, and rows land in that
// order. The first element pins the batch type and resolves the schema
// and bloom spec before the destination is opened; an immediately
// exhausted source fails with ErrEmptyBatch and opens nothing, and a
// source error before the first element propagates unchanged. A later
// element of a different type aborts with *MixedTypeError, in which
// case the store's cleanup guarantee leaves nothing at the key.
//
// Announcements are not re-validated here; callers sign validated
// announcements. Only type homogeneity is enforced.
func Create(ctx context.Context, dst Sink, key string, src Source, opts ...Option) (*Artifact, error) {
	o := options{
		compression: CompressionSnappy,
		bloomBits:   DefaultBloomBits,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	first, err := src.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBatch
		}
		return nil, err
	}
	if first.Announcement == nil {
		return nil, &UnsupportedTypeError{Type: 0}
	}
	batchType := first.Type()
	schema, err := SchemaFor(batchType)
	if err != nil {
		return nil, err
	}
	bloomCols, err := BloomSpecFor(batchType)
	if err != nil {
		return nil, err
	}
	codec, err := o.compression.codec()
	if err != nil {
		return nil, err
	}

	filters := make([]parquet.BloomFilterColumn, len(bloomCols))
	for i, col := range bloomCols {
		filters[i] = parquet.SplitBlockFilter(o.bloomBits, col)
	}
	writerOpts := []parquet.WriterOption{
		parquetSchemaOf(schema),
		parquet.Compression(codec),
		parquet.BloomFilters(filters...),
	}
	if o.maxRowGroupRows > 0 {
		writerOpts = append(writerOpts, parquet.MaxRowsPerRowGroup(o.maxRowGroupRows))
	}

	tap := &hashingTap{h: digest.New()}
	rows := int64(0)

	uri, err := dst.PutStream(ctx, key, func(w io.Writer) error {
		tap.w = w
		pw := parquet.NewGenericWriter[any](tap, writerOpts...)

		writeOne := func(signed announcement.Signed) error {
			var got announcement.Type
			if signed.Announcement != nil {
				got = signed.Type()
			}
			if got != batchType {
				return &MixedTypeError{Want: batchType, Got: got, Index: rows}
			}
			row, err := encodeRow(schema, signed)
			if err != nil {
				return err
			}
			if _, err := pw.WriteRows([]parquet.Row{row}); err != nil {
				return fmt.Errorf("write row %d: %w", rows, err)
			}
			rows++
			return nil
		}

		if err := writeOne(first); err != nil {
			return err
		}
		for {
			next, err := src.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			if err := writeOne(next); err != nil {
				return err
			}
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("finalize batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var sum digest.Digest
	tap.h.Sum(sum[:0])
	contentHash := digest.Hex(sum)

	o.logger.Debug("batch written",
		"key", key,
		"type", batchType.String(),
		"rows", rows,
		"bytes", tap.n,
		"content_hash", contentHash)

	return &Artifact{URI: uri, ContentHash: contentHash, Type: batchType, Rows: rows}, nil
}

// encodeRow builds the Parquet row for one signed announcement, with
// values in schema column order.
func encodeRow(s Schema, signed announcement.Signed) (parquet.Row, error) {
	vals, err := rowValues(signed)
	if err != nil {
		return nil, err
	}
	row := make(parquet.Row, 0, len(s.Columns))
	for i, col := range s.Columns {
		v, ok := vals[col.Name]
		if !ok {
			return nil, fmt.Errorf("announcement has no value for column %s", col.Name)
		}
		switch col.Type {
		case Int32:
			iv, ok := v.(int32)
			if !ok {
				return nil, fmt.Errorf("column %s: want int32, got %T", col.Name, v)
			}
			row = append(row, parquet.Int32Value(iv).Level(0, 0, i))
		case ByteArray:
			sv, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("column %s: want string, got %T", col.Name, v)
			}
			row = append(row, parquet.ByteArrayValue([]byte(sv)).Level(0, 0, i))
		default:
			return nil, fmt.Errorf("column %s: unknown type %s", col.Name, col.Type)
		}
	}
	return row, nil
}

// rowValues flattens a signed announcement into column values. The
// discriminant is stored under "announcementType", and graph change
// timestamps become decimal strings, matching their signing form.
func rowValues(signed announcement.Signed) (map[string]any, error) {
	switch a := signed.Announcement.(type) {
	case *announcement.GraphChange:
		return map[string]any{
			"announcementType": int32(announcement.TypeGraphChange),
			"changeType":       int32(a.ChangeType),
			"createdAt":        canonical.Uint(a.CreatedAt),
			"fromId":           string(a.FromID),
			"objectId":         string(a.ObjectID),
			"signature":        signed.Signature,
		}, nil
	case *announcement.Broadcast:
		return map[string]any{
			"announcementType": int32(announcement.TypeBroadcast),
			"contentHash":      a.ContentHash,
			"fromId":           string(a.FromID),
			"signature":        signed.Signature,
			"url":              a.URL,
		}, nil
	case *announcement.Reply:
		return map[string]any{
			"announcementType": int32(announcement.TypeReply),
			"contentHash":      a.ContentHash,
			"fromId":           string(a.FromID),
			"inReplyTo":        string(a.InReplyTo),
			"signature":        signed.Signature,
			"url":              a.URL,
		}, nil
	case *announcement.Reaction:
		return map[string]any{
			"announcementType": int32(announcement.TypeReaction),
			"emoji":            a.Emoji,
			"fromId":           string(a.FromID),
			"inReplyTo":        string(a.InReplyTo),
			"signature":        signed.Signature,
		}, nil
	case *announcement.Profile:
		return map[string]any{
			"announcementType": int32(announcement.TypeProfile),
			"contentHash":      a.ContentHash,
			"fromId":           string(a.FromID),
			"signature":        signed.Signature,
			"url":              a.URL,
		}, nil
	default:
		return nil, &UnsupportedTypeError{Type: signed.Type()}
	}
}
