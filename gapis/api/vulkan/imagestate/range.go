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
	"fmt"

	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/core/math/interval"
)

// Remaining is the count meaning "up to the end of the image".
const Remaining = ^uint32(0)

// SubresourceRange is a box of subresources: a set of aspects times a range
// of mip levels times a range of array layers times a range of depth slices.
type SubresourceRange struct {
	Aspects        AspectFlags `toml:"aspects"`
	BaseMipLevel   uint32      `toml:"base_mip_level"`
	LevelCount     uint32      `toml:"level_count"`
	BaseArrayLayer uint32      `toml:"base_array_layer"`
	LayerCount     uint32      `toml:"layer_count"`
	BaseDepthSlice uint32      `toml:"base_depth_slice"`
	SliceCount     uint32      `toml:"slice_count"`
}

// AllSubresources returns the range of every subresource with the given
// aspects.
func AllSubresources(aspects AspectFlags) SubresourceRange {
	return SubresourceRange{
		Aspects:    aspects,
		LevelCount: Remaining,
		LayerCount: Remaining,
		SliceCount: Remaining,
	}
}

func (r SubresourceRange) String() string {
	return fmt.Sprintf("%v levels[%v] layers[%v] slices[%v]", r.Aspects,
		span(r.BaseMipLevel, r.LevelCount), span(r.BaseArrayLayer, r.LayerCount),
		span(r.BaseDepthSlice, r.SliceCount))
}

func span(base, count uint32) string {
	if count == Remaining {
		return fmt.Sprintf("%d..", base)
	}
	return fmt.Sprintf("%d+%d", base, count)
}

func (r SubresourceRange) levels() interval.Range[uint32] {
	return interval.Range[uint32]{First: r.BaseMipLevel, Count: r.LevelCount}
}

func (r SubresourceRange) layers() interval.Range[uint32] {
	return interval.Range[uint32]{First: r.BaseArrayLayer, Count: r.LayerCount}
}

func (r SubresourceRange) slices() interval.Range[uint32] {
	return interval.Range[uint32]{First: r.BaseDepthSlice, Count: r.SliceCount}
}

// normalized warns about an interval whose end overflows, unless the count
// is the Remaining sentinel.
func normalized(ctx context.Context, r interval.Range[uint32]) interval.Range[uint32] {
	n, clamped := r.Normalize()
	if clamped && r.Count != Remaining {
		log.W(ctx, "Integer overflow in interval: base=%d, count=%d", r.First, r.Count)
	}
	return n
}

func overlaps(ctx context.Context, a, b interval.Range[uint32]) bool {
	a, b = normalized(ctx, a), normalized(ctx, b)
	if a.Empty() || b.Empty() {
		return false
	}
	return interval.Overlaps(a, b)
}

func containedIn(ctx context.Context, a, b interval.Range[uint32]) bool {
	return interval.ContainedIn(normalized(ctx, a), normalized(ctx, b))
}

// Overlaps returns true if r and o share at least one subresource.
func (r SubresourceRange) Overlaps(ctx context.Context, o SubresourceRange) bool {
	return r.Aspects&o.Aspects != 0 &&
		overlaps(ctx, r.levels(), o.levels()) &&
		overlaps(ctx, r.layers(), o.layers()) &&
		overlaps(ctx, r.slices(), o.slices())
}

// ContainedIn returns true if every subresource of r is also in o.
func (r SubresourceRange) ContainedIn(ctx context.Context, o SubresourceRange) bool {
	return o.Aspects.Contains(r.Aspects) &&
		containedIn(ctx, r.levels(), o.levels()) &&
		containedIn(ctx, r.layers(), o.layers()) &&
		containedIn(ctx, r.slices(), o.slices())
}

// ValidateLevelRange clamps a mip level range to an image with imageLevels
// levels, resolving a Remaining count. It returns false if the input range
// had to be corrected.
func ValidateLevelRange(ctx context.Context, base, count *uint32, imageLevels uint32) bool {
	return validateInterval(ctx, "baseMipLevel", "levelCount", base, count, imageLevels)
}

// ValidateLayerRange clamps an array layer range to an image with
// imageLayers layers, resolving a Remaining count.
func ValidateLayerRange(ctx context.Context, base, count *uint32, imageLayers uint32) bool {
	return validateInterval(ctx, "baseArrayLayer", "layerCount", base, count, imageLayers)
}

// ValidateSliceRange clamps a depth slice range to an image with imageSlices
// slices, resolving a Remaining count.
func ValidateSliceRange(ctx context.Context, base, count *uint32, imageSlices uint32) bool {
	return validateInterval(ctx, "baseSlice", "sliceCount", base, count, imageSlices)
}

func validateInterval(ctx context.Context, baseName, countName string, base, count *uint32, size uint32) bool {
	ok := true
	if *base > size {
		log.W(ctx, "%s (%d) is greater than image %s (%d)", baseName, *base, countName, size)
		*base = size
		ok = false
	}
	if *count == Remaining {
		*count = size - *base
	} else if *count > size-*base {
		log.W(ctx, "%s (%d) + %s (%d) is greater than the image %s (%d)",
			baseName, *base, countName, *count, countName, size)
		*count = size - *base
		ok = false
	}
	return ok
}

// Validate returns r clamped to the extent of the image described by info.
// Aspects the image does not have are dropped. Corrections are logged as
// warnings.
func (r SubresourceRange) Validate(ctx context.Context, info ImageInfo) SubresourceRange {
	if extra := r.Aspects &^ info.Aspects; extra != 0 {
		log.W(ctx, "Subresource range aspects %v not present in image aspects %v", extra, info.Aspects)
		r.Aspects &= info.Aspects
	}
	ValidateLevelRange(ctx, &r.BaseMipLevel, &r.LevelCount, info.Levels)
	ValidateLayerRange(ctx, &r.BaseArrayLayer, &r.LayerCount, info.Layers)
	ValidateSliceRange(ctx, &r.BaseDepthSlice, &r.SliceCount, info.Depth)
	return r
}

// Empty returns true if r holds no subresource.
func (r SubresourceRange) Empty() bool {
	return r.Aspects == 0 || r.LevelCount == 0 || r.LayerCount == 0 || r.SliceCount == 0
}
