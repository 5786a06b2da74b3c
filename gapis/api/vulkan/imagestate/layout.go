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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Layout is an image layout, using the VkImageLayout values.
type Layout int32

const (
	LayoutUndefined                             Layout = 0
	LayoutGeneral                               Layout = 1
	LayoutColorAttachmentOptimal                Layout = 2
	LayoutDepthStencilAttachmentOptimal         Layout = 3
	LayoutDepthStencilReadOnlyOptimal           Layout = 4
	LayoutShaderReadOnlyOptimal                 Layout = 5
	LayoutTransferSrcOptimal                    Layout = 6
	LayoutTransferDstOptimal                    Layout = 7
	LayoutPreinitialized                        Layout = 8
	LayoutPresentSrc                            Layout = 1000001002
	LayoutSharedPresent                         Layout = 1000111000
	LayoutDepthReadOnlyStencilAttachmentOptimal Layout = 1000117000
	LayoutDepthAttachmentStencilReadOnlyOptimal Layout = 1000117001
	LayoutDepthAttachmentOptimal                Layout = 1000241000
	LayoutDepthReadOnlyOptimal                  Layout = 1000241001
	LayoutStencilAttachmentOptimal              Layout = 1000241002
	LayoutStencilReadOnlyOptimal                Layout = 1000241003

	// LayoutUnknown marks a layout that has not been observed yet. It is
	// never passed to the driver.
	LayoutUnknown Layout = -1
)

var layoutNames = map[Layout]string{
	LayoutUndefined:                             "UNDEFINED",
	LayoutGeneral:                               "GENERAL",
	LayoutColorAttachmentOptimal:                "COLOR_ATTACHMENT_OPTIMAL",
	LayoutDepthStencilAttachmentOptimal:         "DEPTH_STENCIL_ATTACHMENT_OPTIMAL",
	LayoutDepthStencilReadOnlyOptimal:           "DEPTH_STENCIL_READ_ONLY_OPTIMAL",
	LayoutShaderReadOnlyOptimal:                 "SHADER_READ_ONLY_OPTIMAL",
	LayoutTransferSrcOptimal:                    "TRANSFER_SRC_OPTIMAL",
	LayoutTransferDstOptimal:                    "TRANSFER_DST_OPTIMAL",
	LayoutPreinitialized:                        "PREINITIALIZED",
	LayoutPresentSrc:                            "PRESENT_SRC_KHR",
	LayoutSharedPresent:                         "SHARED_PRESENT_KHR",
	LayoutDepthReadOnlyStencilAttachmentOptimal: "DEPTH_READ_ONLY_STENCIL_ATTACHMENT_OPTIMAL",
	LayoutDepthAttachmentStencilReadOnlyOptimal: "DEPTH_ATTACHMENT_STENCIL_READ_ONLY_OPTIMAL",
	LayoutDepthAttachmentOptimal:                "DEPTH_ATTACHMENT_OPTIMAL",
	LayoutDepthReadOnlyOptimal:                  "DEPTH_READ_ONLY_OPTIMAL",
	LayoutStencilAttachmentOptimal:              "STENCIL_ATTACHMENT_OPTIMAL",
	LayoutStencilReadOnlyOptimal:                "STENCIL_READ_ONLY_OPTIMAL",
	LayoutUnknown:                               "UNKNOWN",
}

func (l Layout) String() string {
	if n, ok := layoutNames[l]; ok {
		return n
	}
	return fmt.Sprintf("Layout(%d)", int32(l))
}

// ParseLayout parses a layout name. The VK_IMAGE_LAYOUT_ prefix is optional
// and case is ignored. Numeric values are accepted too.
func ParseLayout(s string) (Layout, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "VK_IMAGE_LAYOUT_")
	for l, n := range layoutNames {
		if n == name || strings.TrimSuffix(n, "_KHR") == name {
			return l, nil
		}
	}
	if v, err := strconv.ParseInt(name, 0, 32); err == nil {
		return Layout(v), nil
	}
	return LayoutUnknown, errors.Wrapf(ErrUnknownName, "Image layout '%s'", s)
}

// MarshalText encodes the layout by name.
func (l Layout) MarshalText() ([]byte, error) {
	if _, ok := layoutNames[l]; ok {
		return []byte(layoutNames[l]), nil
	}
	return []byte(strconv.Itoa(int(l))), nil
}

// UnmarshalText decodes a layout encoded by MarshalText.
func (l *Layout) UnmarshalText(text []byte) error {
	v, err := ParseLayout(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// SanitiseReplayLayout replaces the presentation layouts with GENERAL, as
// replay has no swapchain to present to.
func SanitiseReplayLayout(l Layout) Layout {
	if l == LayoutPresentSrc || l == LayoutSharedPresent {
		return LayoutGeneral
	}
	return l
}
