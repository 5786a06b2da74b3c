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

import "context"

// RangeIter visits the cells of a SubresourceMap that overlap a range.
//
//	for it := m.RangeBegin(ctx, r); it.Valid(); it.Next() {
//		...
//	}
//
// The map may be split while iterating. The iterator then continues with
// the finer cells, starting from the cell holding its current position.
type RangeIter struct {
	m     *SubresourceMap
	rng   SubresourceRange
	flags splitFlags
	fixed bool
	done  bool

	aspect, level, layer, slice uint32

	cur SubresourceRange
}

// RangeBegin returns an iterator over the cells overlapping r.
func (m *SubresourceMap) RangeBegin(ctx context.Context, r SubresourceRange) *RangeIter {
	r = r.Validate(ctx, m.info)
	return m.rangeBegin(r)
}

// Begin returns an iterator over every cell of the map.
func (m *SubresourceMap) Begin() *RangeIter {
	return m.rangeBegin(m.info.FullRange())
}

func (m *SubresourceMap) rangeBegin(r SubresourceRange) *RangeIter {
	it := &RangeIter{
		m:     m,
		rng:   r,
		level: r.BaseMipLevel,
		layer: r.BaseArrayLayer,
		slice: r.BaseDepthSlice,
	}
	it.aspect = it.nextAspect(0)
	if r.Empty() || int(it.aspect) >= len(m.aspects) {
		it.done = true
	}
	return it
}

func (it *RangeIter) nextAspect(from uint32) uint32 {
	for i := from; int(i) < len(it.m.aspects); i++ {
		if it.m.aspects[i]&it.rng.Aspects != 0 {
			return i
		}
	}
	return uint32(len(it.m.aspects))
}

// fix recomputes the current cell's range if the map's split flags changed
// since it was last computed.
func (it *RangeIter) fix() {
	if it.fixed && it.flags == it.m.flags {
		return
	}
	it.flags, it.fixed = it.m.flags, true
	it.compute()
}

func (it *RangeIter) compute() {
	info := it.m.info
	if it.flags&depthSplit != 0 {
		it.cur.BaseDepthSlice, it.cur.SliceCount = it.slice, 1
	} else {
		it.cur.BaseDepthSlice, it.cur.SliceCount = 0, info.Depth
	}
	if it.flags&layersSplit != 0 {
		it.cur.BaseArrayLayer, it.cur.LayerCount = it.layer, 1
	} else {
		it.cur.BaseArrayLayer, it.cur.LayerCount = 0, info.Layers
	}
	if it.flags&levelsSplit != 0 {
		it.cur.BaseMipLevel, it.cur.LevelCount = it.level, 1
	} else {
		it.cur.BaseMipLevel, it.cur.LevelCount = 0, info.Levels
	}
	if it.flags&aspectsSplit != 0 {
		it.cur.Aspects = it.m.aspects[it.aspect]
	} else {
		it.cur.Aspects = info.Aspects
	}
}

// Valid returns false once every cell has been visited.
func (it *RangeIter) Valid() bool { return !it.done }

// Next moves to the next cell. Depth slices advance fastest, then array
// layers, mip levels and finally aspects.
func (it *RangeIter) Next() {
	if it.done {
		return
	}
	it.fix()
	defer it.compute()
	r := it.rng
	if it.flags&depthSplit != 0 {
		if it.slice++; it.slice < r.BaseDepthSlice+r.SliceCount {
			return
		}
	}
	it.slice = r.BaseDepthSlice
	if it.flags&layersSplit != 0 {
		if it.layer++; it.layer < r.BaseArrayLayer+r.LayerCount {
			return
		}
	}
	it.layer = r.BaseArrayLayer
	if it.flags&levelsSplit != 0 {
		if it.level++; it.level < r.BaseMipLevel+r.LevelCount {
			return
		}
	}
	it.level = r.BaseMipLevel
	if it.flags&aspectsSplit != 0 {
		if a := it.nextAspect(it.aspect + 1); int(a) < len(it.m.aspects) {
			it.aspect = a
			return
		}
	}
	it.done = true
}

// Range returns the subresources of the current cell. It may extend past
// the iterated range along unsplit dimensions.
func (it *RangeIter) Range() SubresourceRange {
	it.fix()
	return it.cur
}

func (it *RangeIter) cell() *SubresourceState {
	it.fix()
	return &it.m.values[it.m.index(it.aspect, it.level, it.layer, it.slice)]
}

// State returns the state of the current cell.
func (it *RangeIter) State() SubresourceState { return *it.cell() }

// SetState replaces the state of the current cell.
func (it *RangeIter) SetState(s SubresourceState) { *it.cell() = s }
