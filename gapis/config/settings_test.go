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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bjoeris/renderdoc-sub002/core/assert"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/gapis/config"
)

func TestParseKeepsDefaults(t *testing.T) {
	ctx := log.Testing(t)
	s, err := config.Parse([]byte("separate_depth_stencil_layouts = true\ndefault_queue_family = 2\n"))
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "settings").That(s).DeepEquals(config.Settings{
		SeparateDepthStencilLayouts: true,
		DefaultQueueFamily:          2,
		LogLevel:                    "Info",
	})
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	ctx := log.Testing(t)
	_, err := config.Parse([]byte("replay = true\n"))
	assert.For(ctx, "err").ThatError(err).Failed()
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := log.Testing(t)
	want := config.Default()
	want.ReplayMode = true
	want.DefaultQueueFamily = 1
	data, err := want.Encode()
	assert.For(ctx, "encode").ThatError(err).Succeeded()
	path := filepath.Join(t.TempDir(), "settings.toml")
	assert.For(ctx, "write").ThatError(os.WriteFile(path, data, 0644)).Succeeded()
	got, err := config.Load(path)
	assert.For(ctx, "load").ThatError(err).Succeeded()
	assert.For(ctx, "settings").That(got).DeepEquals(want)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.For(ctx, "missing").ThatError(err).Failed()
}
