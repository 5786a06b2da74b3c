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
	"fmt"

	"github.com/bjoeris/renderdoc-sub002/gapis/api/vulkan/barriers"
)

// ImageBarrier is an image memory barrier: a layout transition and/or queue
// family ownership transfer of a range of subresources.
type ImageBarrier struct {
	SrcAccess      AccessFlags      `toml:"src_access"`
	DstAccess      AccessFlags      `toml:"dst_access"`
	OldLayout      Layout           `toml:"old_layout"`
	NewLayout      Layout           `toml:"new_layout"`
	SrcQueueFamily uint32           `toml:"src_queue_family"`
	DstQueueFamily uint32           `toml:"dst_queue_family"`
	Image          Handle           `toml:"image"`
	Range          SubresourceRange `toml:"range"`
}

func (b ImageBarrier) String() string {
	return fmt.Sprintf("image 0x%x %v: %v->%v queue %s->%s",
		uint64(b.Image), b.Range, b.OldLayout, b.NewLayout,
		queueName(b.SrcQueueFamily), queueName(b.DstQueueFamily))
}

// BarrierSequence is a barriers.Sequence of image barriers.
type BarrierSequence = barriers.Sequence[ImageBarrier]

// Batch indices used by Transition and ResetToOldState.
const (
	// BatchCloseTransfers holds the acquires of pending releases.
	BatchCloseTransfers uint32 = iota
	// BatchMain holds the layout transitions and ownership releases.
	BatchMain
	// BatchAcquire holds the acquires matching the releases of BatchMain.
	BatchAcquire
	// BatchRestoreTransfers re-issues the releases pending in the target
	// state.
	BatchRestoreTransfers
)
