// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package herald

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"filippo.io/age"
	"github.com/google/uuid"

	"github.com/herald-social/herald/announcement"
	"github.com/herald-social/herald/batch"
	"github.com/herald-social/herald/digest"
	"github.com/herald-social/herald/registry"
	"github.com/herald-social/herald/signing"
	"github.com/herald-social/herald/store"
)

// Publisher carries finished batch artifacts to an external
// announcement surface, typically a chain transaction that records
// the batch URI and content hash. Implementations live outside this
// module.
type Publisher interface {
	PublishBatch(ctx context.Context, artifact *batch.Artifact) error
}

// Options configures a Client. Only the collaborators an application
// actually calls through are required: Store for batch operations,
// Signer for signing, Registry for delegation checks.
type Options struct {
	// Store receives published batches and serves opened ones.
	Store store.Store

	// Signer signs announcements on behalf of its key holder.
	Signer signing.Signer

	// Recoverer recovers signer addresses during verification.
	// Defaults to signing.CompactRecoverer.
	Recoverer signing.Recoverer

	// Registry resolves whether a recovered key may announce for a
	// user. When nil, ValidateAnnouncement skips the delegation check
	// and validates structure and signature only.
	Registry registry.Resolver

	// Publisher, when set, lets AnnounceBatch push artifacts to an
	// external surface.
	Publisher Publisher

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// BatchOptions apply to every PublishBatch call, before any
	// per-call options.
	BatchOptions []batch.Option

	// StoreIdentities are age identities for decrypting objects a
	// configured filesystem store wrote with age_recipients. Only
	// NewFromConfig consults them; they ride here rather than in
	// configuration so key material never lands in a config file.
	StoreIdentities []age.Identity
}

// Client is the facade over the announcement, signing, batch and
// store packages. A Client is immutable after New and safe for
// concurrent use; per-call variation means calling a method on a
// different Client.
type Client struct {
	store     store.Store
	signer    signing.Signer
	recoverer signing.Recoverer
	registry  registry.Resolver
	publisher Publisher
	logger    *slog.Logger
	batchOpts []batch.Option
}

// New builds a Client from its collaborators.
func New(opts Options) *Client {
	c := &Client{
		store:     opts.Store,
		signer:    opts.Signer,
		recoverer: opts.Recoverer,
		registry:  opts.Registry,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		batchOpts: opts.BatchOptions,
	}
	if c.recoverer == nil {
		c.recoverer = signing.CompactRecoverer{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// UnauthorizedError reports that a structurally valid, correctly
// signed announcement was signed by a key that does not announce for
// the claimed user.
type UnauthorizedError struct {
	Signer signing.Address
	User   announcement.UserID
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("key %s is not authorized to announce for user %s", e.Signer, e.User)
}

// IsUnauthorizedError unwraps err as an *UnauthorizedError.
func IsUnauthorizedError(err error) (*UnauthorizedError, bool) {
	var unauthorized *UnauthorizedError
	if errors.As(err, &unauthorized) {
		return unauthorized, true
	}
	return nil, false
}

// SignAnnouncement validates a structurally and signs its canonical
// serialization with the configured signer.
func (c *Client) SignAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Signed, error) {
	if c.signer == nil {
		return announcement.Signed{}, errors.New("no signer configured")
	}
	if err := announcement.Validate(a); err != nil {
		return announcement.Signed{}, err
	}
	sig, err := c.signer.Sign(ctx, announcement.SigningPayload(a))
	if err != nil {
		return announcement.Signed{}, fmt.Errorf("sign announcement: %w", err)
	}
	return announcement.Signed{Announcement: a, Signature: sig}, nil
}

// VerifySignature recovers the address that signed s. Recovery alone
// proves key possession, not that the key may announce for s's user;
// that is ValidateAnnouncement's job.
func (c *Client) VerifySignature(s announcement.Signed) (signing.Address, error) {
	if s.Announcement == nil {
		return signing.Address{}, errors.New("no announcement")
	}
	return c.recoverer.RecoverSigner(announcement.SigningPayload(s.Announcement), s.Signature)
}

// ValidateAnnouncement runs the full acceptance check on a signed
// announcement: structural validation, signature recovery, and, when
// a registry is configured, the delegation check that the recovered
// key announces for the claimed user. Authorization failures are
// *UnauthorizedError.
func (c *Client) ValidateAnnouncement(ctx context.Context, s announcement.Signed) error {
	if err := announcement.ValidateSigned(s); err != nil {
		return err
	}
	signer, err := c.recoverer.RecoverSigner(announcement.SigningPayload(s.Announcement), s.Signature)
	if err != nil {
		return fmt.Errorf("recover signer: %w", err)
	}
	if c.registry == nil {
		return nil
	}
	user := announcement.From(s.Announcement)
	ok, err := c.registry.IsAuthorizedTo(ctx, signer, user, registry.PermissionAnnounce)
	if err != nil {
		return fmt.Errorf("authorization lookup: %w", err)
	}
	if !ok {
		return &UnauthorizedError{Signer: signer, User: user}
	}
	return nil
}

// PublishBatch drains src into a batch file at a fresh random key
// under batches/ in the configured store. Options here run after the
// client-wide batch options and win on conflict.
func (c *Client) PublishBatch(ctx context.Context, src batch.Source, opts ...batch.Option) (*batch.Artifact, error) {
	return c.PublishBatchTo(ctx, "batches/"+uuid.NewString()+".parquet", src, opts...)
}

// PublishBatchTo is PublishBatch with a caller-chosen destination key.
func (c *Client) PublishBatchTo(ctx context.Context, key string, src batch.Source, opts ...batch.Option) (*batch.Artifact, error) {
	if c.store == nil {
		return nil, errors.New("no store configured")
	}
	merged := make([]batch.Option, 0, len(c.batchOpts)+len(opts)+1)
	merged = append(merged, batch.WithLogger(c.logger))
	merged = append(merged, c.batchOpts...)
	merged = append(merged, opts...)

	artifact, err := batch.Create(ctx, c.store, key, src, merged...)
	if err != nil {
		return nil, err
	}
	c.logger.Info("batch published",
		"uri", artifact.URI,
		"type", artifact.Type.String(),
		"rows", artifact.Rows,
		"content_hash", artifact.ContentHash)
	return artifact, nil
}

// OpenBatch opens the batch at key in the configured store.
func (c *Client) OpenBatch(ctx context.Context, key string) (*batch.File, error) {
	if c.store == nil {
		return nil, errors.New("no store configured")
	}
	return batch.Open(ctx, c.store, key)
}

// AnnounceBatch hands a published artifact to the configured
// publisher.
func (c *Client) AnnounceBatch(ctx context.Context, artifact *batch.Artifact) error {
	if c.publisher == nil {
		return errors.New("no publisher configured")
	}
	if err := c.publisher.PublishBatch(ctx, artifact); err != nil {
		return fmt.Errorf("announce batch: %w", err)
	}
	c.logger.Info("batch announced",
		"uri", artifact.URI,
		"content_hash", artifact.ContentHash)
	return nil
}

// HashContent returns the Keccak-256 content hash of data, in the
// 0x-prefixed form Broadcast, Reply and Profile announcements carry.
func (c *Client) HashContent(data []byte) string {
	return digest.Bytes(data)
}
