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

	"github.com/bjoeris/renderdoc-sub002/core/fault"
	"github.com/bjoeris/renderdoc-sub002/core/log"
)

const (
	// ErrNoValues is returned when restoring a map from an empty array.
	ErrNoValues = fault.Const("No values for subresource map")
	// ErrValueCount is returned when an array does not match the layout of
	// the map it is restored into.
	ErrValueCount = fault.Const("Incorrect number of values for subresource map")
	// ErrRangeMismatch is returned when an array entry does not cover the
	// cell it is restored into.
	ErrRangeMismatch = fault.Const("Subresource range mismatch in subresource map")
)

type splitFlags uint8

const (
	aspectsSplit splitFlags = 1 << iota
	levelsSplit
	layersSplit
	depthSplit
)

// SubresourceMap holds a SubresourceState for every subresource of an
// image. Each of the four dimensions (aspect, mip level, array layer and
// depth slice) is either split, with one cell per index, or unsplit, with a
// single cell shared by the whole dimension. A new map has no dimension
// split, and dimensions are split only when a write needs it.
type SubresourceMap struct {
	info    ImageInfo
	aspects []AspectFlags
	flags   splitFlags
	values  []SubresourceState
}

// NewSubresourceMap returns an unsplit map for the image described by info
// with every subresource in state.
func NewSubresourceMap(info ImageInfo, state SubresourceState) SubresourceMap {
	info = info.Normalize()
	return SubresourceMap{
		info:    info,
		aspects: info.Aspects.Bits(),
		values:  []SubresourceState{state},
	}
}

// Info returns the description of the image.
func (m *SubresourceMap) Info() ImageInfo { return m.info }

// Clone returns a deep copy of the map.
func (m *SubresourceMap) Clone() SubresourceMap {
	out := *m
	out.values = append([]SubresourceState(nil), m.values...)
	return out
}

// Len returns the number of stored cells.
func (m *SubresourceMap) Len() int { return len(m.values) }

// AreAspectsSplit returns true if each aspect has its own cells.
func (m *SubresourceMap) AreAspectsSplit() bool { return m.flags&aspectsSplit != 0 }

// AreLevelsSplit returns true if each mip level has its own cells.
func (m *SubresourceMap) AreLevelsSplit() bool { return m.flags&levelsSplit != 0 }

// AreLayersSplit returns true if each array layer has its own cells.
func (m *SubresourceMap) AreLayersSplit() bool { return m.flags&layersSplit != 0 }

// IsDepthSplit returns true if each depth slice has its own cells.
func (m *SubresourceMap) IsDepthSplit() bool { return m.flags&depthSplit != 0 }

// counts returns the number of cells along each dimension for the split
// flags f.
func (m *SubresourceMap) counts(f splitFlags) (aspects, levels, layers, slices int) {
	aspects, levels, layers, slices = 1, 1, 1, 1
	if f&aspectsSplit != 0 {
		aspects = len(m.aspects)
	}
	if f&levelsSplit != 0 {
		levels = int(m.info.Levels)
	}
	if f&layersSplit != 0 {
		layers = int(m.info.Layers)
	}
	if f&depthSplit != 0 {
		slices = int(m.info.Depth)
	}
	return
}

// indexFor returns the position of a cell in a map with split flags f.
// Coordinates of unsplit dimensions are treated as 0, which broadcasts the
// single cell of the dimension to every index.
func (m *SubresourceMap) indexFor(f splitFlags, aspect, level, layer, slice int) int {
	_, levels, layers, slices := m.counts(f)
	if f&aspectsSplit == 0 {
		aspect = 0
	}
	if f&levelsSplit == 0 {
		level = 0
	}
	if f&layersSplit == 0 {
		layer = 0
	}
	if f&depthSplit == 0 {
		slice = 0
	}
	return ((aspect*levels+level)*layers+layer)*slices + slice
}

func (m *SubresourceMap) index(aspect, level, layer, slice uint32) int {
	return m.indexFor(m.flags, int(aspect), int(level), int(layer), int(slice))
}

// reshape changes the split flags to f. Every cell of the new layout takes
// the value of the old cell at the same coordinates.
func (m *SubresourceMap) reshape(f splitFlags) {
	if f == m.flags {
		return
	}
	aspects, levels, layers, slices := m.counts(f)
	values := make([]SubresourceState, 0, aspects*levels*layers*slices)
	for a := 0; a < aspects; a++ {
		for l := 0; l < levels; l++ {
			for y := 0; y < layers; y++ {
				for s := 0; s < slices; s++ {
					values = append(values, m.values[m.indexFor(m.flags, a, l, y, s)])
				}
			}
		}
	}
	m.values = values
	m.flags = f
}

// Split splits each requested dimension that is not already split. New cells
// take the value of the cell they were split from.
func (m *SubresourceMap) Split(aspects, levels, layers, depth bool) {
	f := m.flags
	if aspects {
		f |= aspectsSplit
	}
	if levels {
		f |= levelsSplit
	}
	if layers {
		f |= layersSplit
	}
	if depth {
		f |= depthSplit
	}
	m.reshape(f)
}

// SplitRange splits every dimension along which r does not cover the whole
// image, so that r's boundaries fall on cell boundaries. r must be
// validated.
func (m *SubresourceMap) SplitRange(r SubresourceRange) {
	m.Split(
		r.Aspects != m.info.Aspects,
		r.BaseMipLevel != 0 || r.LevelCount < m.info.Levels,
		r.BaseArrayLayer != 0 || r.LayerCount < m.info.Layers,
		r.BaseDepthSlice != 0 || r.SliceCount < m.info.Depth,
	)
}

// UnsplitDims collapses each requested dimension to a single cell, keeping
// the value at index 0 of the dimension. Callers must ensure the collapsed
// cells are equal, otherwise state is lost.
func (m *SubresourceMap) UnsplitDims(aspects, levels, layers, depth bool) {
	f := m.flags
	if aspects {
		f &^= aspectsSplit
	}
	if levels {
		f &^= levelsSplit
	}
	if layers {
		f &^= layersSplit
	}
	if depth {
		f &^= depthSplit
	}
	m.reshape(f)
}

// Unsplit collapses every split dimension along which all cells are equal.
// The state of every subresource is unchanged.
func (m *SubresourceMap) Unsplit() {
	if len(m.values) == 1 {
		return
	}
	aspects, levels, layers, slices := m.counts(m.flags)
	canAspects, canLevels, canLayers, canDepth := aspects > 1, levels > 1, layers > 1, slices > 1
	at := func(a, l, y, s int) SubresourceState {
		return m.values[((a*levels+l)*layers+y)*slices+s]
	}
	for a := 0; a < aspects; a++ {
		for l := 0; l < levels; l++ {
			for y := 0; y < layers; y++ {
				for s := 0; s < slices; s++ {
					v := at(a, l, y, s)
					if canAspects && a > 0 && v != at(0, l, y, s) {
						canAspects = false
					}
					if canLevels && l > 0 && v != at(a, 0, y, s) {
						canLevels = false
					}
					if canLayers && y > 0 && v != at(a, l, 0, s) {
						canLayers = false
					}
					if canDepth && s > 0 && v != at(a, l, y, 0) {
						canDepth = false
					}
				}
			}
		}
	}
	m.UnsplitDims(canAspects, canLevels, canLayers, canDepth)
}

// At returns the state of a single subresource.
func (m *SubresourceMap) At(aspect AspectFlags, level, layer, slice uint32) SubresourceState {
	a := m.info.Aspects.Index(aspect)
	if a < 0 {
		a = 0
	}
	return m.values[m.index(uint32(a), level, layer, slice)]
}

// Update folds value into the state of every subresource of r. The map is
// split only if some cell changes. It returns whether anything changed and
// the maximum reference type of the changed cells.
func (m *SubresourceMap) Update(ctx context.Context, r SubresourceRange, value SubresourceState, compose RefCompose) (changed bool, maxRef RefType) {
	r = r.Validate(ctx, m.info)
	for it := m.RangeBegin(ctx, r); it.Valid(); it.Next() {
		s, diff := it.State().Updated(value, compose)
		if !diff {
			continue
		}
		if !changed {
			m.SplitRange(r)
			changed = true
		}
		invariant(ctx, it.Range().ContainedIn(ctx, r),
			"Cell %v not contained in the updated range %v", it.Range(), r)
		it.SetState(s)
		maxRef = ComposeRefsDisjoint(maxRef, s.RefType)
	}
	if changed && logSplits {
		log.D(ctx, "Updated %v: %d cells", r, len(m.values))
	}
	return changed, maxRef
}

// ToArray returns the distinct cells of the map with their ranges, in
// iteration order.
func (m *SubresourceMap) ToArray() []SubresourceStateForRange {
	out := make([]SubresourceStateForRange, 0, len(m.values))
	for it := m.Begin(); it.Valid(); it.Next() {
		out = append(out, SubresourceStateForRange{Range: it.Range(), State: it.State()})
	}
	return out
}

// FromArray restores the map from the output of ToArray. The map is split to
// match the first entry and must then have one cell per entry.
func (m *SubresourceMap) FromArray(ctx context.Context, arr []SubresourceStateForRange) error {
	if len(arr) == 0 {
		return log.Err(ctx, ErrNoValues, "Restoring subresource map")
	}
	m.SplitRange(arr[0].Range.Validate(ctx, m.info))
	if len(m.values) != len(arr) {
		return log.Errf(ctx, ErrValueCount, "Got %d values for %d cells", len(arr), len(m.values))
	}
	var err error
	i := 0
	for it := m.Begin(); it.Valid(); it.Next() {
		if arr[i].Range != it.Range() {
			log.E(ctx, "Subresource range mismatch: %v != %v", arr[i].Range, it.Range())
			err = ErrRangeMismatch
		} else {
			it.SetState(arr[i].State)
		}
		i++
	}
	return err
}
