// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"sync"

	"github.com/herald-social/herald/announcement"
	"github.com/herald-social/herald/signing"
)

// Permission names something a key may do on a user's behalf.
type Permission string

const (
	// PermissionAnnounce allows signing announcements as the user.
	PermissionAnnounce Permission = "announce"
)

// Resolver decides whether a signing key holds a permission for a
// user. Implementations are safe for concurrent use.
//
// The error return is for lookup failures (remote registry down,
// malformed state); a clean "no" is (false, nil).
type Resolver interface {
	IsAuthorizedTo(ctx context.Context, signer signing.Address, user announcement.UserID, permission Permission) (bool, error)
}

// Static is an in-memory Resolver. The zero value is empty and denies
// everything; add delegations with Grant.
type Static struct {
	mu     sync.RWMutex
	grants map[grantKey]map[Permission]struct{}
}

type grantKey struct {
	user   announcement.UserID
	signer signing.Address
}

// NewStatic returns an empty registry.
func NewStatic() *Static {
	return &Static{}
}

// Grant records that signer holds the permissions for user. Granting
// the same permission twice is a no-op.
func (s *Static) Grant(user announcement.UserID, signer signing.Address, permissions ...Permission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grants == nil {
		s.grants = make(map[grantKey]map[Permission]struct{})
	}
	key := grantKey{user: user, signer: signer}
	set := s.grants[key]
	if set == nil {
		set = make(map[Permission]struct{})
		s.grants[key] = set
	}
	for _, p := range permissions {
		set[p] = struct{}{}
	}
}

// Revoke removes the permissions from signer's delegation for user.
// Revoking a permission that was never granted is a no-op.
func (s *Static) Revoke(user announcement.UserID, signer signing.Address, permissions ...Permission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := grantKey{user: user, signer: signer}
	set := s.grants[key]
	if set == nil {
		return
	}
	for _, p := range permissions {
		delete(set, p)
	}
	if len(set) == 0 {
		delete(s.grants, key)
	}
}

// IsAuthorizedTo implements Resolver. It never fails; the error is
// always nil.
func (s *Static) IsAuthorizedTo(ctx context.Context, signer signing.Address, user announcement.UserID, permission Permission) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.grants[grantKey{user: user, signer: signer}]
	_, ok := set[permission]
	return ok, nil
}
