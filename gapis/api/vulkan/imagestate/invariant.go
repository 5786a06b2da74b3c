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
	"fmt"

	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/gapis/config"
)

var (
	debugInvariants = config.DebugImageState
	logSplits       = config.LogImageSplits
)

// invariant reports a broken internal invariant of the tracker. These are
// bugs in this package, not bad input.
func invariant(ctx context.Context, cond bool, msg string, args ...interface{}) {
	if cond {
		return
	}
	if debugInvariants {
		panic(fmt.Errorf("Image state invariant broken: "+msg, args...))
	}
	log.E(ctx, "Image state invariant broken: "+msg, args...)
}
