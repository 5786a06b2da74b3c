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

package config

import (
	"bytes"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Settings are the runtime options of the tracker, normally read from a TOML
// file:
//
//	separate_depth_stencil_layouts = true
//	default_queue_family = 0
//	replay_mode = false
//	log_level = "Info"
type Settings struct {
	// SeparateDepthStencilLayouts is set when the device can transition the
	// depth and stencil aspects of an image independently.
	SeparateDepthStencilLayouts bool `toml:"separate_depth_stencil_layouts"`
	// DefaultQueueFamily is used as the submission queue when a barrier
	// names no queue family at all.
	DefaultQueueFamily uint32 `toml:"default_queue_family"`
	// ReplayMode rewrites present layouts to GENERAL, since replay has no
	// swapchain to present to.
	ReplayMode bool `toml:"replay_mode"`
	// LogLevel is the minimum severity to log.
	LogLevel string `toml:"log_level"`
}

// Default returns the settings used when no file is supplied.
func Default() Settings {
	return Settings{
		SeparateDepthStencilLayouts: false,
		DefaultQueueFamily:          0,
		ReplayMode:                  false,
		LogLevel:                    "Info",
	}
}

// Parse decodes settings from TOML. Keys missing from data keep their
// default values, unknown keys are an error.
func Parse(data []byte) (Settings, error) {
	s := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, errors.Wrap(err, "Decoding settings")
	}
	return s, nil
}

// Load reads settings from the TOML file at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "Reading settings %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "Loading %s", path)
	}
	return s, nil
}

// Encode returns the TOML form of s.
func (s Settings) Encode() ([]byte, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "Encoding settings")
	}
	return data, nil
}
