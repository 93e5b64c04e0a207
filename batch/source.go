// Copyright 2026 The Herald Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"context"
	"io"

	"github.com/herald-social/herald/announcement"
)

// Source yields the signed announcements of a batch, one per Next
// call, ending with io.EOF. Sources are consumed exactly once and need
// not be safe for concurrent use.
type Source interface {
	Next(ctx context.Context) (announcement.Signed, error)
}

// SliceSource replays announcements from a slice.
type SliceSource struct {
	items []announcement.Signed
	pos   int
}

// NewSliceSource builds a source over items in order.
func NewSliceSource(items ...announcement.Signed) *SliceSource {
	return &SliceSource{items: items}
}

func (s *SliceSource) Next(ctx context.Context) (announcement.Signed, error) {
	if err := ctx.Err(); err != nil {
		return announcement.Signed{}, err
	}
	if s.pos >= len(s.items) {
		return announcement.Signed{}, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

// ChannelSource pulls announcements from a channel until it closes,
// letting a producer goroutine feed the batch writer directly.
type ChannelSource struct {
	ch <-chan announcement.Signed
}

// NewChannelSource builds a source draining ch. The producer signals
// the end of the batch by closing the channel.
func NewChannelSource(ch <-chan announcement.Signed) *ChannelSource {
	return &ChannelSource{ch: ch}
}

func (s *ChannelSource) Next(ctx context.Context) (announcement.Signed, error) {
	select {
	case item, ok := <-s.ch:
		if !ok {
			return announcement.Signed{}, io.EOF
		}
		return item, nil
	case <-ctx.Done():
		return announcement.Signed{}, ctx.Err()
	}
}
