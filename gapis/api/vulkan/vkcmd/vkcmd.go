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


// Package vkcmd records image state barriers into Vulkan command buffers.
package vkcmd

import (
	"context"

	"github.com/bjoeris/renderdoc-sub002/core/fault"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/gapis/api/vulkan/imagestate"
	vk "github.com/goki/vulkan"
)

// ErrUnknownImage is returned when a barrier names an image the recorder
// cannot resolve.
const ErrUnknownImage = fault.Const("No Vulkan image for handle")

// ToVk converts b to a VkImageMemoryBarrier on img.
func ToVk(b imagestate.ImageBarrier, img vk.Image) vk.ImageMemoryBarrier {
	return vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       vk.AccessFlags(b.SrcAccess),
		DstAccessMask:       vk.AccessFlags(b.DstAccess),
		OldLayout:           vk.ImageLayout(b.OldLayout),
		NewLayout:           vk.ImageLayout(b.NewLayout),
		SrcQueueFamilyIndex: b.SrcQueueFamily,
		DstQueueFamilyIndex: b.DstQueueFamily,
		Image:               img,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(b.Range.Aspects),
			BaseMipLevel:   b.Range.BaseMipLevel,
			LevelCount:     b.Range.LevelCount,
			BaseArrayLayer: b.Range.BaseArrayLayer,
			LayerCount:     b.Range.LayerCount,
		},
	}
}

// Recorder implements imagestate.BarrierRecorder with vkCmdPipelineBarrier.
type Recorder struct {
	// CommandBuffer is the command buffer barriers are recorded into.
	CommandBuffer vk.CommandBuffer
	// Images resolves the image handles of the barriers.
	Images func(imagestate.Handle) (vk.Image, bool)
	// SrcStage and DstStage are the stage masks of every recorded barrier.
	// Zero means all commands.
	SrcStage, DstStage vk.PipelineStageFlags
}

func (r *Recorder) stages() (src, dst vk.PipelineStageFlags) {
	src, dst = r.SrcStage, r.DstStage
	if src == 0 {
		src = vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
	}
	if dst == 0 {
		dst = vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
	}
	return src, dst
}

// Convert converts barriers to Vulkan barriers, resolving their images.
func (r *Recorder) Convert(ctx context.Context, barriers []imagestate.ImageBarrier) ([]vk.ImageMemoryBarrier, error) {
	out := make([]vk.ImageMemoryBarrier, 0, len(barriers))
	for _, b := range barriers {
		img, ok := r.Images(b.Image)
		if !ok {
			return nil, log.Errf(ctx, ErrUnknownImage, "Image 0x%x", uint64(b.Image))
		}
		out = append(out, ToVk(b, img))
	}
	return out, nil
}

// PipelineBarrier records barriers with a single vkCmdPipelineBarrier.
func (r *Recorder) PipelineBarrier(ctx context.Context, barriers []imagestate.ImageBarrier) error {
	if len(barriers) == 0 {
		return nil
	}
	list, err := r.Convert(ctx, barriers)
	if err != nil {
		return err
	}
	src, dst := r.stages()
	vk.CmdPipelineBarrier(r.CommandBuffer, src, dst, 0, 0, nil, 0, nil, uint32(len(list)), list)
	return nil
}

// RecordQueue records every barrier of seq for queueFamily, one
// vkCmdPipelineBarrier per batch in batch order, removing them from seq.
// Barriers of other queue families are left in seq.
func (r *Recorder) RecordQueue(ctx context.Context, seq *imagestate.BarrierSequence, queueFamily uint32) error {
	for batch := uint32(0); batch < seq.BatchCount(); batch++ {
		if len(seq.Get(batch, queueFamily)) == 0 {
			continue
		}
		if err := r.PipelineBarrier(ctx, seq.Get(batch, queueFamily)); err != nil {
			return err
		}
		seq.Take(batch, queueFamily)
	}
	return nil
}
