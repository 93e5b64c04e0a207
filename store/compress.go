// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag identifies how stored bytes were transformed before
// hitting disk. The tag is recorded in the object's metadata sidecar;
// Get reverses the transform, so compression never changes the bytes
// callers see.
type CompressionTag uint8

const (
	CompressionNone CompressionTag = 0
	CompressionLZ4  CompressionTag = 1
	CompressionZstd CompressionTag = 2
)

// Valid reports whether t is a known tag.
func (t CompressionTag) Valid() bool {
	return t <= CompressionZstd
}

func (t CompressionTag) String() string {
	switch t {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(t))
	}
}

// ParseCompressionTag converts a configuration string into a tag.
func ParseCompressionTag(s string) (CompressionTag, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, lz4, or zstd)", s)
	}
}

// Shared zstd decoder; concurrency-safe for DecodeAll use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("store: zstd decoder init: %v", err))
	}
}

// newCompressor wraps w with the encoder for tag. The returned closer
// flushes the encoder's final frame and must be closed before the
// underlying writer; for CompressionNone it is a no-op.
func newCompressor(tag CompressionTag, w io.Writer) (io.Writer, io.Closer, error) {
	switch tag {
	case CompressionNone:
		return w, nopCloser{}, nil
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		return lw, lw, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, zw, nil
	default:
		return nil, nil, fmt.Errorf("unknown compression tag %d", tag)
	}
}

// decompress reverses the transform named by tag.
func decompress(tag CompressionTag, data []byte) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return out, nil
	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression tag %d", tag)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
