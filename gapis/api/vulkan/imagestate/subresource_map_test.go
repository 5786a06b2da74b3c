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


package imagestate_test

import (
	"testing"

	"github.com/bjoeris/renderdoc-sub002/core/assert"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/gapis/api/vulkan/imagestate"
)

var (
	colorInfo = imagestate.ImageInfo{
		Levels:  4,
		Layers:  1,
		Depth:   1,
		Aspects: imagestate.AspectColor,
		Type:    imagestate.ImageType2D,
	}
	arrayInfo = imagestate.ImageInfo{
		Levels:  2,
		Layers:  2,
		Depth:   1,
		Aspects: imagestate.AspectColor,
		Type:    imagestate.ImageType2D,
	}
	depthStencilInfo = imagestate.ImageInfo{
		Levels:  4,
		Layers:  3,
		Depth:   1,
		Aspects: imagestate.AspectDepthStencil,
		Type:    imagestate.ImageType2D,
	}
)

func levelRange(aspects imagestate.AspectFlags, level uint32) imagestate.SubresourceRange {
	return imagestate.SubresourceRange{
		Aspects:      aspects,
		BaseMipLevel: level,
		LevelCount:   1,
		LayerCount:   imagestate.Remaining,
		SliceCount:   imagestate.Remaining,
	}
}

func TestNewMapIsUnsplit(t *testing.T) {
	ctx := log.Testing(t)
	m := imagestate.NewSubresourceMap(imagestate.ImageInfo{}, imagestate.UnknownState)
	assert.For(ctx, "len").ThatInteger(m.Len()).Equals(1)
	assert.For(ctx, "info").That(m.Info()).Equals(imagestate.ImageInfo{
		Levels: 1, Layers: 1, Depth: 1, Aspects: imagestate.AspectColor,
	})
	assert.For(ctx, "state").That(m.At(imagestate.AspectColor, 0, 0, 0)).Equals(imagestate.UnknownState)
}

func TestSplitUnsplitRoundTrip(t *testing.T) {
	ctx := log.Testing(t)
	state := imagestate.NewState(0, imagestate.LayoutGeneral)
	m := imagestate.NewSubresourceMap(depthStencilInfo, state)

	m.Split(true, true, true, false)
	assert.For(ctx, "split len").ThatInteger(m.Len()).Equals(2 * 4 * 3)
	assert.For(ctx, "aspects split").ThatBoolean(m.AreAspectsSplit()).IsTrue()
	assert.For(ctx, "depth split").ThatBoolean(m.IsDepthSplit()).IsFalse()
	for it := m.Begin(); it.Valid(); it.Next() {
		assert.For(ctx, "cell %v", it.Range()).That(it.State()).Equals(state)
	}

	m.Unsplit()
	assert.For(ctx, "unsplit len").ThatInteger(m.Len()).Equals(1)
	assert.For(ctx, "levels split").ThatBoolean(m.AreLevelsSplit()).IsFalse()
	assert.For(ctx, "state").That(m.At(imagestate.AspectStencil, 3, 2, 0)).Equals(state)
}

func TestUpdateSplitsOnlyWhatChanges(t *testing.T) {
	ctx := log.Testing(t)
	m := imagestate.NewSubresourceMap(colorInfo, imagestate.UnknownState)
	shaderRead := imagestate.NewState(0, imagestate.LayoutShaderReadOnlyOptimal)

	changed, _ := m.Update(ctx, levelRange(imagestate.AspectColor, 2), shaderRead, imagestate.ComposeRefs)
	assert.For(ctx, "changed").ThatBoolean(changed).IsTrue()
	assert.For(ctx, "len").ThatInteger(m.Len()).Equals(4)
	assert.For(ctx, "levels split").ThatBoolean(m.AreLevelsSplit()).IsTrue()
	assert.For(ctx, "layers split").ThatBoolean(m.AreLayersSplit()).IsFalse()
	assert.For(ctx, "aspects split").ThatBoolean(m.AreAspectsSplit()).IsFalse()
	assert.For(ctx, "level 1").That(m.At(imagestate.AspectColor, 1, 0, 0)).Equals(imagestate.UnknownState)
	assert.For(ctx, "level 2").That(m.At(imagestate.AspectColor, 2, 0, 0)).Equals(shaderRead)
	assert.For(ctx, "level 3").That(m.At(imagestate.AspectColor, 3, 0, 0)).Equals(imagestate.UnknownState)

	changed, _ = m.Update(ctx, levelRange(imagestate.AspectColor, 2), shaderRead, imagestate.ComposeRefs)
	assert.For(ctx, "changed again").ThatBoolean(changed).IsFalse()
	assert.For(ctx, "len after repeat").ThatInteger(m.Len()).Equals(4)
}

func TestUpdateWithoutChangeDoesNotSplit(t *testing.T) {
	ctx := log.Testing(t)
	general := imagestate.NewState(0, imagestate.LayoutGeneral)
	m := imagestate.NewSubresourceMap(colorInfo, general)
	changed, ref := m.Update(ctx, levelRange(imagestate.AspectColor, 1), general, imagestate.ComposeRefs)
	assert.For(ctx, "changed").ThatBoolean(changed).IsFalse()
	assert.For(ctx, "ref").That(ref).Equals(imagestate.RefNone)
	assert.For(ctx, "len").ThatInteger(m.Len()).Equals(1)
}

func TestUpdateReturnsMaxRef(t *testing.T) {
	ctx := log.Testing(t)
	m := imagestate.NewSubresourceMap(colorInfo, imagestate.NewState(0, imagestate.LayoutGeneral))
	write := imagestate.NewStateWithRef(0, imagestate.LayoutGeneral, imagestate.RefWrite)
	changed, ref := m.Update(ctx, levelRange(imagestate.AspectColor, 0), write, imagestate.ComposeRefs)
	assert.For(ctx, "changed").ThatBoolean(changed).IsTrue()
	assert.For(ctx, "ref").That(ref).Equals(imagestate.RefWrite)
}

func TestIteratorFollowsSplitDuringIteration(t *testing.T) {
	ctx := log.Testing(t)
	m := imagestate.NewSubresourceMap(colorInfo, imagestate.NewState(0, imagestate.LayoutGeneral))
	it := m.Begin()
	assert.For(ctx, "first cell").That(it.Range().LevelCount).Equals(uint32(4))
	m.Split(false, true, false, false)
	levels := []uint32{}
	for ; it.Valid(); it.Next() {
		r := it.Range()
		assert.For(ctx, "level count").That(r.LevelCount).Equals(uint32(1))
		levels = append(levels, r.BaseMipLevel)
	}
	assert.For(ctx, "levels").That(levels).DeepEquals([]uint32{0, 1, 2, 3})
}

func TestRangeIterVisitsOnlyRequestedAspects(t *testing.T) {
	ctx := log.Testing(t)
	m := imagestate.NewSubresourceMap(depthStencilInfo, imagestate.UnknownState)
	m.Split(true, false, false, false)
	r := imagestate.AllSubresources(imagestate.AspectStencil)
	visited := []imagestate.AspectFlags{}
	for it := m.RangeBegin(ctx, r); it.Valid(); it.Next() {
		visited = append(visited, it.Range().Aspects)
	}
	assert.For(ctx, "aspects").That(visited).DeepEquals([]imagestate.AspectFlags{imagestate.AspectStencil})
}

func TestUnsplitKeepsDistinctCells(t *testing.T) {
	ctx := log.Testing(t)
	general := imagestate.NewState(0, imagestate.LayoutGeneral)
	transferDst := imagestate.NewState(0, imagestate.LayoutTransferDstOptimal)

	m := imagestate.NewSubresourceMap(arrayInfo, general)
	m.Split(false, true, true, false)
	m.Update(ctx, levelRange(imagestate.AspectColor, 1), transferDst, imagestate.ComposeRefs)
	before := m.Clone()
	m.Unsplit()
	assert.For(ctx, "len").ThatInteger(m.Len()).Equals(2)
	assert.For(ctx, "levels split").ThatBoolean(m.AreLevelsSplit()).IsTrue()
	assert.For(ctx, "layers split").ThatBoolean(m.AreLayersSplit()).IsFalse()
	for level := uint32(0); level < 2; level++ {
		for layer := uint32(0); layer < 2; layer++ {
			assert.For(ctx, "level %d layer %d", level, layer).
				That(m.At(imagestate.AspectColor, level, layer, 0)).
				Equals(before.At(imagestate.AspectColor, level, layer, 0))
		}
	}

	single := imagestate.NewSubresourceMap(arrayInfo, general)
	single.Update(ctx, imagestate.SubresourceRange{
		Aspects:        imagestate.AspectColor,
		BaseMipLevel:   1,
		LevelCount:     1,
		BaseArrayLayer: 1,
		LayerCount:     1,
		SliceCount:     1,
	}, transferDst, imagestate.ComposeRefs)
	single.Unsplit()
	assert.For(ctx, "single cell len").ThatInteger(single.Len()).Equals(4)
}

func TestToArrayFromArray(t *testing.T) {
	ctx := log.Testing(t)
	m := imagestate.NewSubresourceMap(colorInfo, imagestate.NewState(0, imagestate.LayoutGeneral))
	m.Update(ctx, levelRange(imagestate.AspectColor, 1),
		imagestate.NewState(1, imagestate.LayoutTransferSrcOptimal), imagestate.ComposeRefs)

	arr := m.ToArray()
	assert.For(ctx, "len").ThatSlice(arr).IsLength(4)
	assert.For(ctx, "range 1").That(arr[1].Range).Equals(imagestate.SubresourceRange{
		Aspects:      imagestate.AspectColor,
		BaseMipLevel: 1,
		LevelCount:   1,
		LayerCount:   1,
		SliceCount:   1,
	})

	restored := imagestate.NewSubresourceMap(colorInfo, imagestate.UnknownState)
	assert.For(ctx, "restore").ThatError(restored.FromArray(ctx, arr)).Succeeded()
	assert.For(ctx, "restored").That(restored.ToArray()).DeepEquals(arr)
}

func TestFromArrayErrors(t *testing.T) {
	ctx := log.Testing(t)
	m := imagestate.NewSubresourceMap(colorInfo, imagestate.UnknownState)
	assert.For(ctx, "empty").ThatError(m.FromArray(ctx, nil)).Equals(imagestate.ErrNoValues)

	src := imagestate.NewSubresourceMap(colorInfo, imagestate.UnknownState)
	src.Split(false, true, false, false)
	arr := src.ToArray()
	assert.For(ctx, "short").ThatError(m.FromArray(ctx, arr[:2])).Equals(imagestate.ErrValueCount)
}
