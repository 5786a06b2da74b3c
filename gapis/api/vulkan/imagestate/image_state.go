// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package imagestate tracks the layout and queue family ownership of every
// subresource of Vulkan images, and builds the barriers that move an image
// from one tracked state to another.
//
// An ImageState is not safe for concurrent use. Tracker serializes access
// to a set of images.
package imagestate

import (
	"context"

	"github.com/bjoeris/renderdoc-sub002/core/log"
)

// ImageState is the tracked state of one image: the state of each of its
// subresources, plus the queue family ownership transfers that have been
// half completed.
type ImageState struct {
	// Handle is the image the state belongs to.
	Handle Handle

	subresources SubresourceMap

	// newQueueFamilyTransfers are release barriers whose acquire has not
	// been seen yet.
	newQueueFamilyTransfers []ImageBarrier
	// oldQueueFamilyTransfers are acquire barriers whose release was not
	// seen, because it happened before tracking started.
	oldQueueFamilyTransfers []ImageBarrier

	maxRefType RefType
}

// New returns the state of an image that has not been used yet: every
// subresource has an unknown layout and no queue family.
func New(handle Handle, info ImageInfo) *ImageState {
	return &ImageState{
		Handle:       handle,
		subresources: NewSubresourceMap(info, UnknownState),
	}
}

// Info returns the static description of the image.
func (s *ImageState) Info() ImageInfo { return s.subresources.info }

// Subresources returns the per-subresource state map.
func (s *ImageState) Subresources() *SubresourceMap { return &s.subresources }

// PendingReleases returns the release barriers waiting for an acquire.
func (s *ImageState) PendingReleases() []ImageBarrier { return s.newQueueFamilyTransfers }

// PendingAcquires returns the acquire barriers recorded without a release.
func (s *ImageState) PendingAcquires() []ImageBarrier { return s.oldQueueFamilyTransfers }

// MaxRef returns the most demanding reference type of any update since the
// start of the capture.
func (s *ImageState) MaxRef() RefType { return s.maxRefType }

// Clone returns a deep copy of s.
func (s *ImageState) Clone() *ImageState {
	out := *s
	out.subresources = s.subresources.Clone()
	out.newQueueFamilyTransfers = append([]ImageBarrier(nil), s.newQueueFamilyTransfers...)
	out.oldQueueFamilyTransfers = append([]ImageBarrier(nil), s.oldQueueFamilyTransfers...)
	return &out
}

// InitialState returns the state of the image at creation: every
// subresource in the image's initial layout, still owned by the queue family
// that owned it at the start of tracking.
func (s *ImageState) InitialState() *ImageState {
	out := &ImageState{Handle: s.Handle, subresources: s.subresources.Clone()}
	for i := range out.subresources.values {
		sub := &out.subresources.values[i]
		sub.OldLayout = s.Info().InitialLayout
		sub.NewLayout = s.Info().InitialLayout
		sub.NewQueueFamily = sub.OldQueueFamily
		sub.RefType = RefNone
	}
	return out
}

// CommandBufferInitialState returns the state a command buffer starts
// recording with, where nothing about the image is known.
func (s *ImageState) CommandBufferInitialState() *ImageState {
	return New(s.Handle, s.Info())
}

// UniformState returns a state of the same image with every subresource in
// sub.
func (s *ImageState) UniformState(sub SubresourceState) *ImageState {
	return &ImageState{
		Handle:       s.Handle,
		subresources: NewSubresourceMap(s.Info(), sub),
	}
}

// Update folds dst into the state of every subresource in r.
func (s *ImageState) Update(ctx context.Context, r SubresourceRange, dst SubresourceState, compose RefCompose) {
	if changed, ref := s.subresources.Update(ctx, r, dst, compose); changed {
		s.maxRefType = ComposeRefsDisjoint(s.maxRefType, ref)
	}
}

// Merge folds the later state other, typically the changes made by one
// command buffer, into s.
func (s *ImageState) Merge(ctx context.Context, other *ImageState, compose RefCompose) {
	if s.Handle == 0 {
		s.Handle = other.Handle
	}
	for _, b := range other.oldQueueFamilyTransfers {
		s.RecordQueueFamilyAcquire(ctx, b)
	}
	for _, cell := range other.subresources.ToArray() {
		s.Update(ctx, cell.Range, cell.State, compose)
	}
	for _, b := range other.newQueueFamilyTransfers {
		s.RecordQueueFamilyRelease(ctx, b)
	}
}

// MergeCaptureBeginState replaces s, which must have no pending transfers,
// with the state recorded at the start of the capture.
func (s *ImageState) MergeCaptureBeginState(ctx context.Context, initial *ImageState) {
	invariant(ctx, len(s.oldQueueFamilyTransfers) == 0, "Pending acquires before capture begin state")
	invariant(ctx, len(s.newQueueFamilyTransfers) == 0, "Pending releases before capture begin state")
	s.oldQueueFamilyTransfers = append([]ImageBarrier(nil), initial.oldQueueFamilyTransfers...)
	s.subresources = initial.subresources.Clone()
	s.maxRefType = initial.maxRefType
}

// MergeStates merges each state of dstStates into the state of the same key
// in states. Keys missing from states start from the InitialState of the
// incoming state.
func MergeStates[K comparable](ctx context.Context, states, dstStates map[K]*ImageState, compose RefCompose) {
	for k, dst := range dstStates {
		st, ok := states[k]
		if !ok {
			st = dst.InitialState()
			states[k] = st
		}
		st.Merge(ctx, dst, compose)
	}
}

// DiscardContents marks the subresources of r as having undefined contents.
func (s *ImageState) DiscardContents(ctx context.Context, r SubresourceRange) {
	s.Update(ctx, r, NewState(QueueFamilyIgnored, LayoutUndefined), ComposeRefs)
}

// RecordQueueFamilyRelease files a release barrier until its acquire is
// recorded. Earlier releases of overlapping subresources are dropped.
func (s *ImageState) RecordQueueFamilyRelease(ctx context.Context, b ImageBarrier) {
	list := s.newQueueFamilyTransfers
	for i := 0; i < len(list); {
		if b.Range.Overlaps(ctx, list[i].Range) {
			log.W(ctx, "Queue family release barriers overlap: %v and %v", b, list[i])
			list[i] = list[len(list)-1]
			list = list[:len(list)-1]
			continue
		}
		i++
	}
	s.newQueueFamilyTransfers = append(list, b)
}

// RecordQueueFamilyAcquire matches an acquire barrier with the pending
// releases it overlaps, removing them. An acquire with no release is kept in
// the pending acquires.
func (s *ImageState) RecordQueueFamilyAcquire(ctx context.Context, b ImageBarrier) {
	found := false
	list := s.newQueueFamilyTransfers
	for i := 0; i < len(list); {
		release := list[i]
		if !b.Range.Overlaps(ctx, release.Range) {
			i++
			continue
		}
		if b.Range != release.Range {
			log.W(ctx, "Overlapping queue family release and acquire barriers have different subresource ranges: %v and %v",
				release.Range, b.Range)
		}
		if b.SrcQueueFamily != release.SrcQueueFamily || b.DstQueueFamily != release.DstQueueFamily {
			log.W(ctx, "Queue family mismatch between release and acquire barriers: %v and %v", release, b)
		}
		if b.OldLayout != release.OldLayout || b.NewLayout != release.NewLayout {
			log.W(ctx, "Image layouts mismatch between release and acquire barriers: %v and %v", release, b)
		}
		if found {
			log.W(ctx, "Found multiple release barriers for acquire barrier %v", b)
		}
		list[i] = list[len(list)-1]
		list = list[:len(list)-1]
		found = true
	}
	s.newQueueFamilyTransfers = list
	if !found {
		s.oldQueueFamilyTransfers = append(s.oldQueueFamilyTransfers, b)
	}
}

// RecordBarrier records a barrier submitted to queueFamily.
//
// Queue families are normalized for the image's sharing mode first. A
// release to another queue family only files the barrier; the subresource
// state changes when the matching acquire is recorded.
func (s *ImageState) RecordBarrier(ctx context.Context, b ImageBarrier, queueFamily uint32) {
	if IsSpecialQueueFamily(b.SrcQueueFamily) || IsSpecialQueueFamily(b.DstQueueFamily) {
		log.E(ctx, "External/foreign queue families are not supported: %v", b)
		return
	}
	switch s.Info().Sharing {
	case SharingConcurrent:
		if b.SrcQueueFamily != QueueFamilyIgnored || b.DstQueueFamily != QueueFamilyIgnored {
			log.W(ctx, "Barrier contains invalid queue families for concurrent sharing: (%s, %s)",
				queueName(b.SrcQueueFamily), queueName(b.DstQueueFamily))
		}
		b.SrcQueueFamily, b.DstQueueFamily = queueFamily, queueFamily
	default:
		switch {
		case b.SrcQueueFamily == QueueFamilyIgnored || b.DstQueueFamily == QueueFamilyIgnored:
			if b.SrcQueueFamily != b.DstQueueFamily {
				log.E(ctx, "Barrier contains invalid queue families for exclusive sharing: (%s, %s)",
					queueName(b.SrcQueueFamily), queueName(b.DstQueueFamily))
				return
			}
			b.SrcQueueFamily, b.DstQueueFamily = queueFamily, queueFamily
		case b.SrcQueueFamily == queueFamily:
			if b.DstQueueFamily != queueFamily {
				s.RecordQueueFamilyRelease(ctx, b)
				return
			}
		case b.DstQueueFamily == queueFamily:
			s.RecordQueueFamilyAcquire(ctx, b)
		default:
			log.E(ctx, "Ownership transfer from queue family %d to %d submitted to queue family %d",
				b.SrcQueueFamily, b.DstQueueFamily, queueFamily)
		}
	}
	s.Update(ctx, b.Range, StateFromBarrier(b), ComposeRefs)
}

// MaxRefType returns the most demanding reference type of the subresources
// in r.
func (s *ImageState) MaxRefType(ctx context.Context, r SubresourceRange) RefType {
	ref := RefNone
	for it := s.subresources.RangeBegin(ctx, r); it.Valid(); it.Next() {
		ref = ComposeRefsDisjoint(ref, it.State().RefType)
	}
	return ref
}

// BeginCapture makes the current state the starting point of a new capture.
// Pending transfers are forgotten: releases already submitted are not part
// of the capture, and an acquire seen during the capture will be recorded as
// a pending acquire.
func (s *ImageState) BeginCapture() {
	s.maxRefType = RefNone
	s.newQueueFamilyTransfers = nil
	s.oldQueueFamilyTransfers = nil
	for i := range s.subresources.values {
		sub := &s.subresources.values[i]
		sub.OldLayout = sub.NewLayout
		sub.OldQueueFamily = sub.NewQueueFamily
		sub.RefType = RefNone
	}
}

// ToArray returns the distinct cells of the image's state.
func (s *ImageState) ToArray() []SubresourceStateForRange { return s.subresources.ToArray() }

// FromArray restores the image's state from the output of ToArray.
func (s *ImageState) FromArray(ctx context.Context, arr []SubresourceStateForRange) error {
	return s.subresources.FromArray(ctx, arr)
}
