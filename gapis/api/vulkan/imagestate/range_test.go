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

func TestValidateRange(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name  string
		input imagestate.SubresourceRange
		want  imagestate.SubresourceRange
	}{
		{"remaining", imagestate.AllSubresources(imagestate.AspectDepthStencil),
			imagestate.SubresourceRange{Aspects: imagestate.AspectDepthStencil, LevelCount: 4, LayerCount: 3, SliceCount: 1}},
		{"clamped count", imagestate.SubresourceRange{Aspects: imagestate.AspectDepth, BaseMipLevel: 2, LevelCount: 5, LayerCount: 1, SliceCount: 1},
			imagestate.SubresourceRange{Aspects: imagestate.AspectDepth, BaseMipLevel: 2, LevelCount: 2, LayerCount: 1, SliceCount: 1}},
		{"clamped base", imagestate.SubresourceRange{Aspects: imagestate.AspectStencil, BaseArrayLayer: 7, LevelCount: 1, LayerCount: 1, SliceCount: 1},
			imagestate.SubresourceRange{Aspects: imagestate.AspectStencil, BaseArrayLayer: 3, LevelCount: 1, LayerCount: 0, SliceCount: 1}},
		{"foreign aspect", imagestate.SubresourceRange{Aspects: imagestate.AspectColor | imagestate.AspectDepth, LevelCount: 1, LayerCount: 1, SliceCount: 1},
			imagestate.SubresourceRange{Aspects: imagestate.AspectDepth, LevelCount: 1, LayerCount: 1, SliceCount: 1}},
	} {
		got := test.input.Validate(ctx, depthStencilInfo)
		assert.For(ctx, test.name).That(got).Equals(test.want)
	}
}

func TestValidateLevelRange(t *testing.T) {
	ctx := log.Testing(t)
	base, count := uint32(1), imagestate.Remaining
	assert.For(ctx, "remaining ok").ThatBoolean(imagestate.ValidateLevelRange(ctx, &base, &count, 4)).IsTrue()
	assert.For(ctx, "remaining count").That(count).Equals(uint32(3))

	base, count = 3, 4
	assert.For(ctx, "overflow ok").ThatBoolean(imagestate.ValidateLevelRange(ctx, &base, &count, 4)).IsFalse()
	assert.For(ctx, "overflow count").That(count).Equals(uint32(1))
}

func TestRangeOverlaps(t *testing.T) {
	ctx := log.Testing(t)
	a := levelRange(imagestate.AspectColor, 1)
	for _, test := range []struct {
		name string
		b    imagestate.SubresourceRange
		want bool
	}{
		{"same", levelRange(imagestate.AspectColor, 1), true},
		{"other level", levelRange(imagestate.AspectColor, 2), false},
		{"other aspect", levelRange(imagestate.AspectDepth, 1), false},
		{"everything", imagestate.AllSubresources(imagestate.AspectColor), true},
		{"empty", imagestate.SubresourceRange{Aspects: imagestate.AspectColor, BaseMipLevel: 1, LayerCount: 1, SliceCount: 1}, false},
	} {
		assert.For(ctx, test.name).ThatBoolean(a.Overlaps(ctx, test.b)).Equals(test.want)
		assert.For(ctx, "%s reversed", test.name).ThatBoolean(test.b.Overlaps(ctx, a)).Equals(test.want)
	}
}

func TestRangeContainedIn(t *testing.T) {
	ctx := log.Testing(t)
	all := imagestate.AllSubresources(imagestate.AspectDepthStencil)
	depth := levelRange(imagestate.AspectDepth, 1)
	assert.For(ctx, "in all").ThatBoolean(depth.ContainedIn(ctx, all)).IsTrue()
	assert.For(ctx, "all in depth").ThatBoolean(all.ContainedIn(ctx, depth)).IsFalse()
	assert.For(ctx, "other aspect").ThatBoolean(depth.ContainedIn(ctx, levelRange(imagestate.AspectStencil, 1))).IsFalse()
}

func TestParseNames(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		in   string
		want imagestate.Layout
	}{
		{"GENERAL", imagestate.LayoutGeneral},
		{"VK_IMAGE_LAYOUT_PRESENT_SRC_KHR", imagestate.LayoutPresentSrc},
		{"present_src", imagestate.LayoutPresentSrc},
		{"5", imagestate.LayoutShaderReadOnlyOptimal},
	} {
		got, err := imagestate.ParseLayout(test.in)
		assert.For(ctx, "%s err", test.in).ThatError(err).Succeeded()
		assert.For(ctx, test.in).That(got).Equals(test.want)
	}
	_, err := imagestate.ParseLayout("SIDEWAYS")
	assert.For(ctx, "bad layout").ThatError(err).Equals(imagestate.ErrUnknownName)

	aspects, err := imagestate.ParseAspects("VK_IMAGE_ASPECT_DEPTH_BIT|stencil")
	assert.For(ctx, "aspects err").ThatError(err).Succeeded()
	assert.For(ctx, "aspects").That(aspects).Equals(imagestate.AspectDepthStencil)
	assert.For(ctx, "aspects string").That(aspects.String()).Equals("DEPTH|STENCIL")
	_, err = imagestate.ParseAspects("COLOUR")
	assert.For(ctx, "bad aspect").ThatError(err).Equals(imagestate.ErrUnknownName)

	var sharing imagestate.SharingMode
	assert.For(ctx, "bad sharing").ThatError(sharing.UnmarshalText([]byte("SOMETIMES"))).
		Equals(imagestate.ErrUnknownName)
	var typ imagestate.ImageType
	assert.For(ctx, "bad type").ThatError(typ.UnmarshalText([]byte("4D"))).Equals(imagestate.ErrUnknownName)
	var ref imagestate.RefType
	assert.For(ctx, "bad ref").ThatError(ref.UnmarshalText([]byte("peek"))).Equals(imagestate.ErrUnknownName)
}

func TestComposeRefs(t *testing.T) {
	ctx := log.Testing(t)
	assert.For(ctx, "read then write").That(imagestate.ComposeRefs(imagestate.RefRead, imagestate.RefWrite)).
		Equals(imagestate.RefReadBeforeWrite)
	assert.For(ctx, "write then read").That(imagestate.ComposeRefs(imagestate.RefWrite, imagestate.RefRead)).
		Equals(imagestate.RefWrite)
	assert.For(ctx, "none then read").That(imagestate.ComposeRefs(imagestate.RefNone, imagestate.RefRead)).
		Equals(imagestate.RefRead)
	assert.For(ctx, "disjoint").That(imagestate.ComposeRefsDisjoint(imagestate.RefRead, imagestate.RefWrite)).
		Equals(imagestate.RefWrite)
	assert.For(ctx, "keep first").That(imagestate.ComposeRefsKeepFirst(imagestate.RefRead, imagestate.RefWrite)).
		Equals(imagestate.RefRead)
}
