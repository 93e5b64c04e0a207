// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filippo.io/age"
)

func newTestFS(t *testing.T, opts FSOptions) (*FS, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewFS(root, opts)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s, root
}

func TestFSPutGetRoundTrip(t *testing.T) {
	s, root := newTestFS(t, FSOptions{})
	ctx := context.Background()
	payload := []byte("announcement batch bytes")

	uri, err := s.Put(ctx, "batches/a.parquet", payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	wantURI := "file://" + filepath.Join(root, "batches", "a.parquet")
	if uri != wantURI {
		t.Errorf("uri = %q, want %q", uri, wantURI)
	}

	got, err := s.Get(ctx, "batches/a.parquet")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Get = %q, want %q", got, payload)
	}

	if _, err := os.Stat(filepath.Join(root, "batches", "a.parquet.meta")); err != nil {
		t.Errorf("metadata sidecar missing: %v", err)
	}
}

func TestFSWriteOnce(t *testing.T) {
	s, _ := newTestFS(t, FSOptions{})
	ctx := context.Background()

	if _, err := s.Put(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	_, err := s.Put(ctx, "k", []byte("second"))
	if !errors.Is(err, ErrKeyExists) {
		t.Fatalf("second Put error = %v, want ErrKeyExists", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "first" {
		t.Fatalf("Get = %q, want the first write to survive", got)
	}
}

func TestFSGetMissing(t *testing.T) {
	s, _ := newTestFS(t, FSOptions{})
	if _, err := s.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestFSPutStreamCallbackErrorLeavesNothing(t *testing.T) {
	s, root := newTestFS(t, FSOptions{})
	ctx := context.Background()
	errBoom := errors.New("boom")

	_, err := s.PutStream(ctx, "partial", func(w io.Writer) error {
		if _, err := w.Write([]byte("some bytes before failing")); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("PutStream error = %v, want the callback's own error", err)
	}

	if _, err := s.Get(ctx, "partial"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after failed stream = %v, want ErrNotFound", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		t.Errorf("leftover entry %q after failed stream", e.Name())
	}

	// The key stays usable after a failed attempt.
	if _, err := s.Put(ctx, "partial", []byte("retry")); err != nil {
		t.Fatalf("Put after failed stream: %v", err)
	}
}

func TestFSCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("herald batch bytes "), 1000)
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			s, root := newTestFS(t, FSOptions{Compression: tag})
			ctx := context.Background()
			if _, err := s.Put(ctx, "obj", payload); err != nil {
				t.Fatalf("Put: %v", err)
			}

			onDisk, err := os.ReadFile(filepath.Join(root, "obj"))
			if err != nil {
				t.Fatalf("read stored file: %v", err)
			}
			switch tag {
			case CompressionNone:
				if !bytes.Equal(onDisk, payload) {
					t.Errorf("uncompressed object differs on disk")
				}
			default:
				if len(onDisk) >= len(payload) {
					t.Errorf("compressed object is %d bytes on disk, logical %d", len(onDisk), len(payload))
				}
			}

			got, err := s.Get(ctx, "obj")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("round trip mismatch under %s", tag)
			}
		})
	}
}

func TestFSEncryptionRoundTrip(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity: %v", err)
	}
	opts := FSOptions{
		Compression: CompressionZstd,
		Recipients:  []age.Recipient{identity.Recipient()},
		Identities:  []age.Identity{identity},
	}
	s, root := newTestFS(t, opts)
	ctx := context.Background()
	payload := []byte("secret announcement batch secret announcement batch")

	if _, err := s.Put(ctx, "enc", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	onDisk, err := os.ReadFile(filepath.Join(root, "enc"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if bytes.Contains(onDisk, []byte("secret")) {
		t.Fatalf("plaintext visible in stored file")
	}

	got, err := s.Get(ctx, "enc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch")
	}

	// A reader without the identity cannot decrypt.
	blind, err := NewFS(root, FSOptions{})
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if _, err := blind.Get(ctx, "enc"); err == nil {
		t.Fatalf("Get without identities succeeded, want error")
	}
}

func TestFSIntegrityDetectsCorruption(t *testing.T) {
	s, root := newTestFS(t, FSOptions{})
	ctx := context.Background()
	if _, err := s.Put(ctx, "obj", []byte("pristine bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	path := filepath.Join(root, "obj")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	raw[0] ^= 0xff
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("corrupt stored file: %v", err)
	}

	_, err = s.Get(ctx, "obj")
	if err == nil || !strings.Contains(err.Error(), "integrity") {
		t.Fatalf("Get over corrupted object = %v, want integrity error", err)
	}
}

func TestFSReadsObjectsWrittenUnderOtherConfig(t *testing.T) {
	// Get follows the object's own metadata, not the store's current
	// configuration.
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity: %v", err)
	}
	root := t.TempDir()
	writer, err := NewFS(root, FSOptions{Compression: CompressionLZ4})
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	payload := bytes.Repeat([]byte("columnar "), 500)
	if _, err := writer.Put(context.Background(), "obj", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reader, err := NewFS(root, FSOptions{
		Compression: CompressionZstd,
		Identities:  []age.Identity{identity},
	})
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	got, err := reader.Get(context.Background(), "obj")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("cross-config read mismatch")
	}
}

func TestFSRejectsBadKeys(t *testing.T) {
	s, _ := newTestFS(t, FSOptions{})
	ctx := context.Background()
	bad := []string{
		"",
		"/absolute",
		"a//b",
		"../escape",
		"a/../b",
		"./a",
		"a/.",
		"win\\path",
		"object.meta",
		"dir/object.meta",
	}
	for _, key := range bad {
		if _, err := s.Put(ctx, key, []byte("x")); err == nil {
			t.Errorf("Put(%q) succeeded, want error", key)
		}
	}
}

func TestFSNestedKeys(t *testing.T) {
	s, _ := newTestFS(t, FSOptions{})
	ctx := context.Background()
	key := "batches/2026/08/deep.parquet"
	if _, err := s.Put(ctx, key, []byte("nested")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "nested" {
		t.Fatalf("Get = %q, want %q", got, "nested")
	}
}
