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


// The imgstate command replays image state scenarios and prints the
// barriers each step needs.
package main

import (
	"os"

	"github.com/bjoeris/renderdoc-sub002/core/app"
)

func main() {
	app.ShortHelp = "imgstate tracks Vulkan image layouts and queue ownership through a scenario."
	app.Run(os.Args[1:])
}
