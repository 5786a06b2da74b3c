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
	"math/bits"
	"strings"

	"github.com/bjoeris/renderdoc-sub002/core/fault"
	"github.com/pkg/errors"
)

// ErrUnknownName is returned when parsing a name that does not match any
// value of the enumeration.
const ErrUnknownName = fault.Const("Unknown name")

// AspectFlags is a set of image aspects, using the VkImageAspectFlagBits
// values.
type AspectFlags uint32

const (
	AspectColor    AspectFlags = 0x1
	AspectDepth    AspectFlags = 0x2
	AspectStencil  AspectFlags = 0x4
	AspectMetadata AspectFlags = 0x8
	AspectPlane0   AspectFlags = 0x10
	AspectPlane1   AspectFlags = 0x20
	AspectPlane2   AspectFlags = 0x40

	// AspectDepthStencil is the combined aspect set of packed depth/stencil
	// formats.
	AspectDepthStencil = AspectDepth | AspectStencil
)

var aspectNames = []struct {
	bit  AspectFlags
	name string
}{
	{AspectColor, "COLOR"},
	{AspectDepth, "DEPTH"},
	{AspectStencil, "STENCIL"},
	{AspectMetadata, "METADATA"},
	{AspectPlane0, "PLANE_0"},
	{AspectPlane1, "PLANE_1"},
	{AspectPlane2, "PLANE_2"},
}

// Bits returns the individual aspects of a, lowest bit first.
func (a AspectFlags) Bits() []AspectFlags {
	out := make([]AspectFlags, 0, a.Count())
	for rest := a; rest != 0; rest &= rest - 1 {
		out = append(out, rest&-rest)
	}
	return out
}

// Count returns the number of aspects in a.
func (a AspectFlags) Count() int { return bits.OnesCount32(uint32(a)) }

// Contains returns true if every aspect of o is in a.
func (a AspectFlags) Contains(o AspectFlags) bool { return a&o == o }

// Index returns the position of the single aspect bit within a, or -1 if
// bit is not in a.
func (a AspectFlags) Index(bit AspectFlags) int {
	if a&bit == 0 || bit.Count() != 1 {
		return -1
	}
	return bits.OnesCount32(uint32(a & (bit - 1)))
}

func (a AspectFlags) String() string {
	if a == 0 {
		return "NONE"
	}
	parts := []string{}
	rest := a
	for _, n := range aspectNames {
		if a&n.bit != 0 {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseAspects parses a '|' separated list of aspect names, as produced by
// String.
func ParseAspects(s string) (AspectFlags, error) {
	var out AspectFlags
	for _, part := range strings.Split(s, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		part = strings.TrimPrefix(part, "VK_IMAGE_ASPECT_")
		part = strings.TrimSuffix(part, "_BIT")
		if part == "NONE" || part == "" {
			continue
		}
		found := false
		for _, n := range aspectNames {
			if n.name == part {
				out |= n.bit
				found = true
				break
			}
		}
		if !found {
			return 0, errors.Wrapf(ErrUnknownName, "Image aspect '%s'", part)
		}
	}
	return out, nil
}

// MarshalText encodes the aspects by name.
func (a AspectFlags) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes aspects encoded by MarshalText.
func (a *AspectFlags) UnmarshalText(text []byte) error {
	v, err := ParseAspects(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
