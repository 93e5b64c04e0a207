// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// objectMeta is the CBOR sidecar written next to every object. It
// records how the stored bytes relate to the bytes the caller wrote,
// so Get can verify and reverse the transforms no matter how the
// store is configured when it reads.
type objectMeta struct {
	// Size is the logical object size: the bytes the caller wrote.
	Size int64 `cbor:"size"`
	// StoredSize is the on-disk size after compression/encryption.
	StoredSize int64 `cbor:"storedSize"`
	// Integrity is the keyed BLAKE3 digest of the stored bytes.
	Integrity []byte `cbor:"integrity"`
	// Compression names the transform applied before encryption.
	Compression CompressionTag `cbor:"compression"`
	Encrypted   bool           `cbor:"encrypted"`
	// CreatedAt is milliseconds since the Unix epoch.
	CreatedAt int64 `cbor:"createdAt"`
}

// Sidecars use deterministic encoding so byte-identical metadata
// always serializes identically.
var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("store: cbor encode mode: %v", err))
	}
	cborEnc = em
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("store: cbor decode mode: %v", err))
	}
	cborDec = dm
}

// Integrity digests are keyed BLAKE3 under a fixed derived key, so a
// digest from this store never collides with a plain BLAKE3 of the
// same bytes computed elsewhere.
var integrityKey = func() []byte {
	key := make([]byte, 32)
	blake3.DeriveKey("herald/store object integrity v1", nil, key)
	return key
}()

func newIntegrityHasher() *blake3.Hasher {
	h, err := blake3.NewKeyed(integrityKey)
	if err != nil {
		panic(fmt.Sprintf("store: integrity hasher: %v", err))
	}
	return h
}

// FSOptions configures a filesystem store. The zero value stores
// plain uncompressed objects.
type FSOptions struct {
	// Compression transforms stored bytes; Get reverses it.
	Compression CompressionTag
	// Recipients enables at-rest encryption when non-empty.
	Recipients []age.Recipient
	// Identities decrypt on Get; required to read encrypted objects.
	Identities []age.Identity
	// Logger receives debug events; nil means slog.Default().
	Logger *slog.Logger
}

// FS stores objects as files under a root directory. Writes go
// through a temp file and an atomic rename; a failed write leaves
// nothing at the key.
type FS struct {
	root        string
	compression CompressionTag
	recipients  []age.Recipient
	identities  []age.Identity
	logger      *slog.Logger
}

var _ Store = (*FS)(nil)

// NewFS opens (creating if needed) a filesystem store rooted at root.
func NewFS(root string, opts FSOptions) (*FS, error) {
	if root == "" {
		return nil, errors.New("store root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	if !opts.Compression.Valid() {
		return nil, fmt.Errorf("unknown compression tag %d", opts.Compression)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FS{
		root:        abs,
		compression: opts.Compression,
		recipients:  opts.Recipients,
		identities:  opts.Identities,
		logger:      logger,
	}, nil
}

func (s *FS) objectPath(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *FS) metaPath(key string) string {
	return s.objectPath(key) + ".meta"
}

func (s *FS) checkPutKey(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	// The sidecar lives at <key>.meta; keep that namespace free.
	if strings.HasSuffix(key, ".meta") {
		return fmt.Errorf("key %q: reserved suffix .meta", key)
	}
	return nil
}

// Put stores data at key.
func (s *FS) Put(ctx context.Context, key string, data []byte) (string, error) {
	return s.PutStream(ctx, key, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// PutStream streams an object to key. The callback's bytes pass
// through compression and encryption (as configured) into a temp file
// that is renamed into place only after everything flushed cleanly. A
// callback error is returned unchanged and nothing appears at the key.
func (s *FS) PutStream(ctx context.Context, key string, write func(io.Writer) error) (string, error) {
	if err := s.checkPutKey(key); err != nil {
		return "", fmt.Errorf("put: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	objPath := s.objectPath(key)
	if _, err := os.Stat(objPath); err == nil {
		return "", fmt.Errorf("put %q: %w", key, ErrKeyExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("put %q: %w", key, err)
	}

	dir := filepath.Dir(objPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("put %q: %w", key, err)
	}
	tmp, err := os.CreateTemp(dir, ".herald-put-*")
	if err != nil {
		return "", fmt.Errorf("put %q: create temp: %w", key, err)
	}
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	stored := &countingWriter{w: tmp}
	integrity := newIntegrityHasher()
	var sink io.Writer = io.MultiWriter(stored, integrity)

	encrypted := len(s.recipients) > 0
	var encCloser io.Closer = nopCloser{}
	if encrypted {
		ew, err := age.Encrypt(sink, s.recipients...)
		if err != nil {
			return "", fmt.Errorf("put %q: encrypt: %w", key, err)
		}
		encCloser = ew
		sink = ew
	}

	compressed, compCloser, err := newCompressor(s.compression, sink)
	if err != nil {
		return "", fmt.Errorf("put %q: %w", key, err)
	}

	logical := &countingWriter{w: compressed}
	if err := write(logical); err != nil {
		compCloser.Close()
		encCloser.Close()
		return "", err
	}
	if err := compCloser.Close(); err != nil {
		encCloser.Close()
		return "", fmt.Errorf("put %q: flush compression: %w", key, err)
	}
	if err := encCloser.Close(); err != nil {
		return "", fmt.Errorf("put %q: flush encryption: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("put %q: sync: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("put %q: close temp: %w", key, err)
	}

	meta := objectMeta{
		Size:        logical.n,
		StoredSize:  stored.n,
		Integrity:   integrity.Sum(nil),
		Compression: s.compression,
		Encrypted:   encrypted,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if err := s.writeMeta(key, meta); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), objPath); err != nil {
		os.Remove(s.metaPath(key))
		return "", fmt.Errorf("put %q: commit: %w", key, err)
	}
	success = true

	s.logger.Debug("object stored",
		"key", key,
		"size", meta.Size,
		"stored_size", meta.StoredSize,
		"compression", meta.Compression.String(),
		"encrypted", meta.Encrypted)
	return "file://" + objPath, nil
}

func (s *FS) writeMeta(key string, meta objectMeta) error {
	data, err := cborEnc.Marshal(meta)
	if err != nil {
		return fmt.Errorf("put %q: encode metadata: %w", key, err)
	}
	metaPath := s.metaPath(key)
	tmp, err := os.CreateTemp(filepath.Dir(metaPath), ".herald-meta-*")
	if err != nil {
		return fmt.Errorf("put %q: metadata temp: %w", key, err)
	}
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("put %q: write metadata: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("put %q: close metadata: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), metaPath); err != nil {
		return fmt.Errorf("put %q: commit metadata: %w", key, err)
	}
	success = true
	return nil
}

// Get returns the bytes stored at key, verifying integrity and
// reversing encryption and compression per the object's own metadata
// rather than the store's current configuration.
func (s *FS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored, err := os.ReadFile(s.objectPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	metaRaw, err := os.ReadFile(s.metaPath(key))
	if err != nil {
		return nil, fmt.Errorf("get %q: metadata: %w", key, err)
	}
	var meta objectMeta
	if err := cborDec.Unmarshal(metaRaw, &meta); err != nil {
		return nil, fmt.Errorf("get %q: decode metadata: %w", key, err)
	}

	if int64(len(stored)) != meta.StoredSize {
		return nil, fmt.Errorf("get %q: stored size %d, metadata says %d", key, len(stored), meta.StoredSize)
	}
	h := newIntegrityHasher()
	h.Write(stored)
	if !bytes.Equal(h.Sum(nil), meta.Integrity) {
		return nil, fmt.Errorf("get %q: integrity mismatch", key)
	}

	data := stored
	if meta.Encrypted {
		if len(s.identities) == 0 {
			return nil, fmt.Errorf("get %q: object is encrypted and no identities are configured", key)
		}
		r, err := age.Decrypt(bytes.NewReader(data), s.identities...)
		if err != nil {
			return nil, fmt.Errorf("get %q: decrypt: %w", key, err)
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("get %q: decrypt: %w", key, err)
		}
	}
	if data, err = decompress(meta.Compression, data); err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	if int64(len(data)) != meta.Size {
		return nil, fmt.Errorf("get %q: size %d after decode, metadata says %d", key, len(data), meta.Size)
	}
	return data, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
