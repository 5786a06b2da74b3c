//go:build mage

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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default builds the command line tool.
var Default = Build.Imgstate

const binDir = "bin"

type Build mg.Namespace

// Imgstate builds the imgstate command into bin/.
func (Build) Imgstate() error {
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join(binDir, "imgstate"), "./cmd/imgstate")
}

// All compiles every package.
func (Build) All() error {
	return sh.RunV("go", "build", "./...")
}

type Check mg.Namespace

// Vet runs go vet over the module.
func (Check) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests. Set IMGSTATE_RACE=1 to enable the race
// detector.
func (Check) Test() error {
	args := []string{"test"}
	if os.Getenv("IMGSTATE_RACE") == "1" {
		args = append(args, "-race")
	}
	if mg.Verbose() {
		args = append(args, "-v")
	}
	return sh.RunV("go", append(args, "./...")...)
}

// All runs vet and the tests.
func (Check) All() {
	mg.SerialDeps(Check.Vet, Check.Test)
}

// Scenario runs a scenario file with the freshly built tool.
func Scenario(path string) error {
	mg.Deps(Build.Imgstate)
	out, err := sh.Output(filepath.Join(binDir, "imgstate"), "run", path)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// Clean removes the build output.
func Clean() error {
	return sh.Rm(binDir)
}
