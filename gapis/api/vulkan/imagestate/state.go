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

import "fmt"

// SubresourceState is the layout and queue family ownership of a
// subresource. The old fields hold the state at the start of the tracked
// period, the new fields the current state.
type SubresourceState struct {
	OldQueueFamily uint32  `toml:"old_queue_family"`
	NewQueueFamily uint32  `toml:"new_queue_family"`
	OldLayout      Layout  `toml:"old_layout"`
	NewLayout      Layout  `toml:"new_layout"`
	RefType        RefType `toml:"ref_type"`
}

// UnknownState is the state of a subresource that has not been observed.
var UnknownState = SubresourceState{
	OldQueueFamily: QueueFamilyIgnored,
	NewQueueFamily: QueueFamilyIgnored,
	OldLayout:      LayoutUnknown,
	NewLayout:      LayoutUnknown,
	RefType:        RefNone,
}

// NewState returns the state of a subresource owned by queueFamily in
// layout, with equal old and new fields.
func NewState(queueFamily uint32, layout Layout) SubresourceState {
	return NewStateWithRef(queueFamily, layout, RefNone)
}

// NewStateWithRef is NewState with a reference type.
func NewStateWithRef(queueFamily uint32, layout Layout, ref RefType) SubresourceState {
	return SubresourceState{
		OldQueueFamily: queueFamily,
		NewQueueFamily: queueFamily,
		OldLayout:      layout,
		NewLayout:      layout,
		RefType:        ref,
	}
}

// StateFromBarrier returns the state change performed by b.
func StateFromBarrier(b ImageBarrier) SubresourceState {
	return SubresourceState{
		OldQueueFamily: b.SrcQueueFamily,
		NewQueueFamily: b.DstQueueFamily,
		OldLayout:      b.OldLayout,
		NewLayout:      b.NewLayout,
		RefType:        RefNone,
	}
}

// Update folds a later state o into s. The old fields keep the earliest
// known value, the new fields take the latest known value.
func (s *SubresourceState) Update(o SubresourceState, compose RefCompose) {
	if s.OldQueueFamily == QueueFamilyIgnored {
		s.OldQueueFamily = o.OldQueueFamily
	}
	if o.NewQueueFamily != QueueFamilyIgnored {
		s.NewQueueFamily = o.NewQueueFamily
	}
	if s.OldLayout == LayoutUnknown {
		s.OldLayout = o.OldLayout
	}
	if o.NewLayout != LayoutUnknown {
		s.NewLayout = o.NewLayout
	}
	s.RefType = compose(s.RefType, o.RefType)
}

// Updated returns s updated with o, and whether that differs from s.
func (s SubresourceState) Updated(o SubresourceState, compose RefCompose) (SubresourceState, bool) {
	out := s
	out.Update(o, compose)
	return out, out != s
}

func (s SubresourceState) String() string {
	return fmt.Sprintf("{queue %s->%s layout %v->%v ref %v}",
		queueName(s.OldQueueFamily), queueName(s.NewQueueFamily), s.OldLayout, s.NewLayout, s.RefType)
}

func queueName(q uint32) string {
	switch q {
	case QueueFamilyIgnored:
		return "IGNORED"
	case QueueFamilyExternal:
		return "EXTERNAL"
	case QueueFamilyForeign:
		return "FOREIGN"
	default:
		return fmt.Sprint(q)
	}
}

// SubresourceStateForRange pairs a range with the state of every
// subresource in it.
type SubresourceStateForRange struct {
	Range SubresourceRange `toml:"range"`
	State SubresourceState `toml:"state"`
}
