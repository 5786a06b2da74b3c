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
	"strings"

	"github.com/pkg/errors"
)

// Handle is the driver handle of an image.
type Handle uint64

// Queue family index sentinels.
const (
	QueueFamilyIgnored  = ^uint32(0)
	QueueFamilyExternal = ^uint32(0) - 1
	QueueFamilyForeign  = ^uint32(0) - 2
)

// IsSpecialQueueFamily returns true for the external and foreign queue
// families, which denote ownership outside the device.
func IsSpecialQueueFamily(q uint32) bool {
	return q == QueueFamilyExternal || q == QueueFamilyForeign
}

// AccessFlags is a set of memory access types, using the VkAccessFlagBits
// values.
type AccessFlags uint32

const (
	AccessIndirectCommandRead         AccessFlags = 0x00001
	AccessIndexRead                   AccessFlags = 0x00002
	AccessVertexAttributeRead         AccessFlags = 0x00004
	AccessUniformRead                 AccessFlags = 0x00008
	AccessInputAttachmentRead         AccessFlags = 0x00010
	AccessShaderRead                  AccessFlags = 0x00020
	AccessShaderWrite                 AccessFlags = 0x00040
	AccessColorAttachmentRead         AccessFlags = 0x00080
	AccessColorAttachmentWrite        AccessFlags = 0x00100
	AccessDepthStencilAttachmentRead  AccessFlags = 0x00200
	AccessDepthStencilAttachmentWrite AccessFlags = 0x00400
	AccessTransferRead                AccessFlags = 0x00800
	AccessTransferWrite               AccessFlags = 0x01000
	AccessHostRead                    AccessFlags = 0x02000
	AccessHostWrite                   AccessFlags = 0x04000
	AccessMemoryRead                  AccessFlags = 0x08000
	AccessMemoryWrite                 AccessFlags = 0x10000

	AccessAllRead = AccessIndirectCommandRead | AccessIndexRead | AccessVertexAttributeRead |
		AccessUniformRead | AccessInputAttachmentRead | AccessShaderRead |
		AccessColorAttachmentRead | AccessDepthStencilAttachmentRead | AccessTransferRead |
		AccessHostRead | AccessMemoryRead
	AccessAllWrite = AccessShaderWrite | AccessColorAttachmentWrite |
		AccessDepthStencilAttachmentWrite | AccessTransferWrite | AccessHostWrite |
		AccessMemoryWrite
)

// SharingMode is the queue sharing policy of an image.
type SharingMode uint32

const (
	SharingExclusive  SharingMode = 0
	SharingConcurrent SharingMode = 1
)

func (s SharingMode) String() string {
	switch s {
	case SharingExclusive:
		return "EXCLUSIVE"
	case SharingConcurrent:
		return "CONCURRENT"
	default:
		return fmt.Sprintf("SharingMode(%d)", uint32(s))
	}
}

// MarshalText encodes the sharing mode by name.
func (s SharingMode) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a sharing mode name.
func (s *SharingMode) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "EXCLUSIVE", "":
		*s = SharingExclusive
	case "CONCURRENT":
		*s = SharingConcurrent
	default:
		return errors.Wrapf(ErrUnknownName, "Sharing mode '%s'", text)
	}
	return nil
}

// ImageType is the dimensionality of an image.
type ImageType uint32

const (
	ImageType1D ImageType = 0
	ImageType2D ImageType = 1
	ImageType3D ImageType = 2
)

func (t ImageType) String() string {
	switch t {
	case ImageType1D:
		return "1D"
	case ImageType2D:
		return "2D"
	case ImageType3D:
		return "3D"
	default:
		return fmt.Sprintf("ImageType(%d)", uint32(t))
	}
}

// MarshalText encodes the image type by name.
func (t ImageType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes an image type name.
func (t *ImageType) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "1D":
		*t = ImageType1D
	case "2D", "":
		*t = ImageType2D
	case "3D":
		*t = ImageType3D
	default:
		return errors.Wrapf(ErrUnknownName, "Image type '%s'", text)
	}
	return nil
}

// ImageInfo is the static description of an image.
type ImageInfo struct {
	Levels        uint32      `toml:"levels"`
	Layers        uint32      `toml:"layers"`
	Depth         uint32      `toml:"depth"` // extent.depth; 1 unless Type is ImageType3D
	Aspects       AspectFlags `toml:"aspects"`
	Sharing       SharingMode `toml:"sharing"`
	Type          ImageType   `toml:"type"`
	InitialLayout Layout      `toml:"initial_layout"`
}

// FullRange returns the range covering every subresource of the image.
func (i ImageInfo) FullRange() SubresourceRange {
	return SubresourceRange{
		Aspects:        i.Aspects,
		BaseMipLevel:   0,
		LevelCount:     i.Levels,
		BaseArrayLayer: 0,
		LayerCount:     i.Layers,
		BaseDepthSlice: 0,
		SliceCount:     i.Depth,
	}
}

// IsDepthAndStencil returns true if the image has both depth and stencil
// aspects.
func (i ImageInfo) IsDepthAndStencil() bool {
	return i.Aspects.Contains(AspectDepthStencil)
}

// Normalize replaces zero dimensions with 1 and, for images with no aspect,
// assumes color.
func (i ImageInfo) Normalize() ImageInfo {
	if i.Levels == 0 {
		i.Levels = 1
	}
	if i.Layers == 0 {
		i.Layers = 1
	}
	if i.Depth == 0 {
		i.Depth = 1
	}
	if i.Aspects == 0 {
		i.Aspects = AspectColor
	}
	return i
}
