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

package imagestate

import (
	"context"

	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/core/math/interval"
	"github.com/bjoeris/renderdoc-sub002/gapis/config"
)

// TransitionInfo holds the device properties and modes that affect the
// barriers built by Transition and ResetToOldState.
type TransitionInfo struct {
	// SeparateDepthStencilLayouts is set when depth and stencil aspects can
	// be transitioned independently.
	SeparateDepthStencilLayouts bool
	// DefaultQueueFamily is the queue used for barriers whose source and
	// destination queue families are both unknown.
	DefaultQueueFamily uint32
	// ReplayMode replaces presentation layouts with GENERAL.
	ReplayMode bool
	// Compose combines reference types. When nil, ComposeRefs is used while
	// capturing and ComposeRefsKeepFirst on replay.
	Compose RefCompose
}

// NewTransitionInfo returns the TransitionInfo for the given settings.
func NewTransitionInfo(s config.Settings) TransitionInfo {
	return TransitionInfo{
		SeparateDepthStencilLayouts: s.SeparateDepthStencilLayouts,
		DefaultQueueFamily:          s.DefaultQueueFamily,
		ReplayMode:                  s.ReplayMode,
	}
}

func (i TransitionInfo) compose() RefCompose {
	switch {
	case i.Compose != nil:
		return i.Compose
	case i.ReplayMode:
		return ComposeRefsKeepFirst
	default:
		return ComposeRefs
	}
}

// BarrierRecorder records barriers into a command buffer.
type BarrierRecorder interface {
	PipelineBarrier(ctx context.Context, barriers []ImageBarrier) error
}

// addBarrier adds b to the sequence, dropping it if queueFamily is not a
// queue the barrier can be submitted to.
func addBarrier(ctx context.Context, seq *BarrierSequence, batch, queueFamily uint32, b ImageBarrier) {
	if queueFamily == QueueFamilyIgnored || IsSpecialQueueFamily(queueFamily) {
		log.E(ctx, "Dropping barrier submitted to queue family %s: %v", queueName(queueFamily), b)
		return
	}
	seq.Add(batch, queueFamily, b)
}

// CloseTransfers completes every pending release by adding its acquire to
// batch, and applies the transfer to the subresource states. It returns
// false if there was nothing to close.
func (s *ImageState) CloseTransfers(ctx context.Context, batch uint32, dstAccess AccessFlags, seq *BarrierSequence, info TransitionInfo) bool {
	if len(s.newQueueFamilyTransfers) == 0 {
		return false
	}
	for _, b := range s.newQueueFamilyTransfers {
		s.Update(ctx, b.Range, NewState(b.DstQueueFamily, b.NewLayout), ComposeRefs)
		b.DstAccess = dstAccess
		b.Image = s.Handle
		addBarrier(ctx, seq, batch, b.DstQueueFamily, b)
	}
	s.newQueueFamilyTransfers = nil
	return true
}

// RestoreTransfers re-issues the release barriers transfers into batch,
// leaving them pending again. It returns false if transfers is empty.
func (s *ImageState) RestoreTransfers(ctx context.Context, batch uint32, transfers []ImageBarrier, srcAccess AccessFlags, seq *BarrierSequence, info TransitionInfo) bool {
	if len(transfers) == 0 {
		return false
	}
	transfers = append([]ImageBarrier(nil), transfers...)
	for _, b := range transfers {
		b.SrcAccess = srcAccess
		b.Image = s.Handle
		addBarrier(ctx, seq, batch, b.SrcQueueFamily, b)
		s.RecordQueueFamilyRelease(ctx, b)
	}
	return true
}

// barrierAspects applies the depth/stencil rule: without separate layouts
// the two aspects of a depth/stencil image always transition together, so
// stencil-only barriers are dropped and depth-only barriers grow to include
// stencil. ok is false if the barrier should be dropped.
func (s *ImageState) barrierAspects(aspects AspectFlags, info TransitionInfo) (AspectFlags, bool) {
	if !s.Info().IsDepthAndStencil() || info.SeparateDepthStencilLayouts {
		return aspects, true
	}
	switch aspects {
	case AspectStencil:
		return aspects, false
	case AspectDepth:
		return aspects | AspectStencil, true
	}
	return aspects, true
}

// Transition adds to seq the barriers that move the image from s to dst, and
// updates s to dst. The barriers are grouped in four batches:
// BatchCloseTransfers completes the releases pending in s, BatchMain holds
// the layout transitions and releases, BatchAcquire the matching acquires
// and BatchRestoreTransfers re-issues the releases pending in dst.
func (s *ImageState) Transition(ctx context.Context, dst *ImageState, srcAccess, dstAccess AccessFlags, seq *BarrierSequence, info TransitionInfo) {
	if dst == s {
		dst = s.Clone()
	}
	s.CloseTransfers(ctx, BatchCloseTransfers, dstAccess, seq, info)
	compose := info.compose()

	for dstIt := dst.subresources.Begin(); dstIt.Valid(); dstIt.Next() {
		dstRng, dstSub := dstIt.Range(), dstIt.State()
		for it := s.subresources.RangeBegin(ctx, dstRng); it.Valid(); it.Next() {
			updated, changed := it.State().Updated(dstSub, compose)
			if !changed {
				continue
			}
			s.subresources.SplitRange(dstRng)
			srcSub := it.State()
			it.SetState(updated)
			srcRng := it.Range()

			oldLayout := srcSub.NewLayout
			if oldLayout == LayoutUnknown {
				oldLayout = LayoutUndefined
			}
			newLayout := dstSub.NewLayout
			if newLayout == LayoutUnknown || newLayout == LayoutUndefined {
				// The destination does not care about the contents.
				continue
			}
			srcQueue, dstQueue := srcSub.NewQueueFamily, dstSub.NewQueueFamily
			if oldLayout == LayoutUndefined {
				// The contents are discarded, so no ownership transfer is needed.
				srcQueue = dstQueue
			}
			if newLayout == LayoutPreinitialized && oldLayout != LayoutPreinitialized {
				// Only valid as an initial layout. This happens when going back to an
				// earlier state of the image.
				log.W(ctx, "Transition to PREINITIALIZED from %v of %v; using GENERAL", oldLayout, srcRng)
				newLayout = LayoutGeneral
				dstQueue = srcSub.OldQueueFamily
				if dstQueue == QueueFamilyIgnored {
					log.W(ctx, "No known queue family owned %v before the capture", srcRng)
				}
			}
			if info.ReplayMode {
				oldLayout = SanitiseReplayLayout(oldLayout)
				newLayout = SanitiseReplayLayout(newLayout)
			}

			if IsSpecialQueueFamily(srcQueue) || IsSpecialQueueFamily(dstQueue) {
				log.E(ctx, "Ignoring state transition of %v between queue families %s and %s",
					srcRng, queueName(srcQueue), queueName(dstQueue))
				continue
			}
			submitQueue := srcQueue
			if submitQueue == QueueFamilyIgnored {
				submitQueue = dstQueue
			}
			if submitQueue == QueueFamilyIgnored {
				if info.DefaultQueueFamily == QueueFamilyIgnored || IsSpecialQueueFamily(info.DefaultQueueFamily) {
					log.E(ctx, "Ignoring state transition of %v with no queue family", srcRng)
					continue
				}
				log.W(ctx, "State transition of %v has no queue family; using queue family %d",
					srcRng, info.DefaultQueueFamily)
				submitQueue = info.DefaultQueueFamily
			}

			if s.Info().Sharing == SharingConcurrent {
				srcQueue, dstQueue = QueueFamilyIgnored, QueueFamilyIgnored
			} else {
				if srcQueue == QueueFamilyIgnored {
					log.W(ctx, "Transition of %v: source queue family is unknown", srcRng)
					srcQueue = dstQueue
				}
				if dstQueue == QueueFamilyIgnored {
					log.W(ctx, "Transition of %v: destination queue family is unknown", srcRng)
					dstQueue = srcQueue
				}
			}

			if srcQueue == dstQueue && oldLayout == newLayout {
				continue
			}
			if srcRng.BaseDepthSlice != 0 || dstRng.BaseDepthSlice != 0 {
				// Barriers cannot select depth slices. The barrier for slice 0
				// covers the whole depth.
				continue
			}
			aspects, ok := s.barrierAspects(srcRng.Aspects&dstRng.Aspects, info)
			if !ok {
				continue
			}
			levels := interval.Intersect(srcRng.levels(), dstRng.levels())
			layers := interval.Intersect(srcRng.layers(), dstRng.layers())
			b := ImageBarrier{
				SrcAccess:      srcAccess,
				DstAccess:      dstAccess,
				OldLayout:      oldLayout,
				NewLayout:      newLayout,
				SrcQueueFamily: srcQueue,
				DstQueueFamily: dstQueue,
				Image:          s.Handle,
				Range: SubresourceRange{
					Aspects:        aspects,
					BaseMipLevel:   levels.First,
					LevelCount:     levels.Count,
					BaseArrayLayer: layers.First,
					LayerCount:     layers.Count,
					BaseDepthSlice: 0,
					SliceCount:     Remaining,
				},
			}
			addBarrier(ctx, seq, BatchMain, submitQueue, b)
			if srcQueue != dstQueue {
				addBarrier(ctx, seq, BatchAcquire, dstQueue, b)
			}
		}
	}
	s.RestoreTransfers(ctx, BatchRestoreTransfers, dst.newQueueFamilyTransfers, srcAccess, seq, info)
}

// TransitionUniform transitions every subresource to layout, owned by
// queueFamily.
func (s *ImageState) TransitionUniform(ctx context.Context, queueFamily uint32, layout Layout, srcAccess, dstAccess AccessFlags, seq *BarrierSequence, info TransitionInfo) {
	s.Transition(ctx, s.UniformState(NewState(queueFamily, layout)), srcAccess, dstAccess, seq, info)
}

// TempTransition builds the barriers to temporarily move the image to dst,
// into setup, and the barriers to move it back, into cleanup. s is not
// changed.
func (s *ImageState) TempTransition(ctx context.Context, dst *ImageState,
	preSrcAccess, preDstAccess, postSrcAccess, postDstAccess AccessFlags,
	setup, cleanup *BarrierSequence, info TransitionInfo) {
	temp := s.Clone()
	temp.Transition(ctx, dst, preSrcAccess, preDstAccess, setup, info)
	temp.Transition(ctx, s, postSrcAccess, postDstAccess, cleanup, info)
}

// TempTransitionUniform is TempTransition to a uniform state, accessed with
// access in between setup and cleanup.
func (s *ImageState) TempTransitionUniform(ctx context.Context, queueFamily uint32, layout Layout, access AccessFlags, setup, cleanup *BarrierSequence, info TransitionInfo) {
	s.TempTransition(ctx, s.UniformState(NewState(queueFamily, layout)),
		AccessAllWrite, access, access, AccessAllRead, setup, cleanup, info)
}

// InlineTransition transitions s to dst by recording the barriers for
// queueFamily into a single command buffer. Only the queue's part of the first
// non-empty batch can be recorded; any other barrier, including an acquire
// whose release belongs to another queue, is reported as an error.
func (s *ImageState) InlineTransition(ctx context.Context, rec BarrierRecorder, queueFamily uint32, dst *ImageState, srcAccess, dstAccess AccessFlags, info TransitionInfo) {
	seq := BarrierSequence{}
	s.Transition(ctx, dst, srcAccess, dstAccess, &seq, info)
	if seq.Empty() {
		return
	}
	if list := seq.ExtractFirstBatchForQueue(queueFamily); len(list) > 0 {
		if err := rec.PipelineBarrier(ctx, list); err != nil {
			log.E(ctx, "Recording inline transition barriers: %v", err)
		}
	}
	if !seq.Empty() {
		log.E(ctx, "Could not inline all image state transition barriers: %d left", seq.Len())
	}
}

// InlineTransitionUniform is InlineTransition to a uniform state owned by
// queueFamily.
func (s *ImageState) InlineTransitionUniform(ctx context.Context, rec BarrierRecorder, queueFamily uint32, layout Layout, srcAccess, dstAccess AccessFlags, info TransitionInfo) {
	s.InlineTransition(ctx, rec, queueFamily, s.UniformState(NewState(queueFamily, layout)), srcAccess, dstAccess, info)
}

// ResetToOldState adds to seq the barriers that return the image to the
// state it had at the start of tracking, and makes that the current state.
// After the reset the old and new fields of every subresource are equal.
func (s *ImageState) ResetToOldState(ctx context.Context, seq *BarrierSequence, info TransitionInfo) {
	srcAccess, dstAccess := AccessAllWrite, AccessAllRead
	s.CloseTransfers(ctx, BatchCloseTransfers, dstAccess, seq, info)

	for it := s.subresources.Begin(); it.Valid(); it.Next() {
		sub := it.State()
		oldLayout := sub.NewLayout
		if oldLayout == LayoutUnknown {
			oldLayout = LayoutUndefined
		}
		newLayout := sub.OldLayout
		srcQueue, dstQueue := sub.NewQueueFamily, sub.OldQueueFamily

		sub.NewLayout = sub.OldLayout
		sub.NewQueueFamily = sub.OldQueueFamily
		it.SetState(sub)

		if newLayout == LayoutUnknown || newLayout == LayoutUndefined {
			// Contents are discarded, no barrier is needed.
			continue
		}
		oldLayout = SanitiseReplayLayout(oldLayout)
		newLayout = SanitiseReplayLayout(newLayout)
		if oldLayout != LayoutPreinitialized && newLayout == LayoutPreinitialized {
			newLayout = LayoutGeneral
		}
		if IsSpecialQueueFamily(srcQueue) {
			srcQueue = QueueFamilyIgnored
		}
		if IsSpecialQueueFamily(dstQueue) {
			dstQueue = QueueFamilyIgnored
		}

		submitQueue := srcQueue
		if s.Info().Sharing == SharingConcurrent {
			if submitQueue == QueueFamilyIgnored {
				submitQueue = dstQueue
			}
			srcQueue, dstQueue = QueueFamilyIgnored, QueueFamilyIgnored
		} else if srcQueue == QueueFamilyIgnored {
			submitQueue = dstQueue
			dstQueue = QueueFamilyIgnored
		} else if dstQueue == QueueFamilyIgnored {
			srcQueue = QueueFamilyIgnored
		}

		if srcQueue == dstQueue && oldLayout == newLayout {
			continue
		}
		if submitQueue == QueueFamilyIgnored {
			log.W(ctx, "Reset of %v has no queue family; using queue family %d",
				it.Range(), info.DefaultQueueFamily)
			submitQueue = info.DefaultQueueFamily
		}

		rng := it.Range()
		if rng.BaseDepthSlice != 0 {
			continue
		}
		aspects, ok := s.barrierAspects(rng.Aspects, info)
		if !ok {
			continue
		}
		rng.Aspects = aspects
		rng.BaseDepthSlice, rng.SliceCount = 0, Remaining
		b := ImageBarrier{
			SrcAccess:      srcAccess,
			DstAccess:      dstAccess,
			OldLayout:      oldLayout,
			NewLayout:      newLayout,
			SrcQueueFamily: srcQueue,
			DstQueueFamily: dstQueue,
			Image:          s.Handle,
			Range:          rng,
		}
		addBarrier(ctx, seq, BatchMain, submitQueue, b)
		if srcQueue != dstQueue {
			addBarrier(ctx, seq, BatchAcquire, dstQueue, b)
		}
	}
	s.RestoreTransfers(ctx, BatchRestoreTransfers, s.oldQueueFamilyTransfers, srcAccess, seq, info)
}
