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
	"context"
	"flag"
	"os"

	"github.com/bjoeris/renderdoc-sub002/core/app"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/gapis/api/vulkan/imagestate"
	"github.com/bjoeris/renderdoc-sub002/gapis/config"
	"github.com/pkg/errors"
)

type runVerb struct {
	Settings   string
	Checkpoint string
	Quiet      bool
}

func init() {
	verb := &runVerb{}
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	flags.StringVar(&verb.Settings, "settings", "", "TOML settings file overriding the scenario's [settings]")
	flags.StringVar(&verb.Checkpoint, "checkpoint", "", "Write the final image states to this file")
	flags.BoolVar(&verb.Quiet, "quiet", false, "Do not print the final image states")
	app.AddVerb(&app.Verb{
		Name:       "run",
		ShortHelp:  "Runs a scenario and prints the barriers of each operation",
		ShortUsage: "<scenario.toml>",
		Action:     verb,
		Flags:      flags,
	})
}

func (verb *runVerb) Run(ctx context.Context, flags *flag.FlagSet) error {
	if flags.NArg() != 1 {
		return errors.Wrapf(app.ErrUsage, "Exactly one scenario file expected, got %d", flags.NArg())
	}
	return verb.runFile(ctx, flags.Arg(0))
}

func (verb *runVerb) runFile(ctx context.Context, path string) error {
	s, err := loadScenario(path)
	if err != nil {
		return err
	}
	if verb.Settings != "" {
		if s.Settings, err = config.Load(verb.Settings); err != nil {
			return err
		}
	}
	r, err := newRunner(ctx, s, stdout)
	if err != nil {
		return err
	}
	if err := r.run(ctx, s.Ops); err != nil {
		return err
	}
	log.I(ctx, "Ran %d operations on %d images", len(s.Ops), len(s.Images))
	if !verb.Quiet {
		r.printStates(ctx)
	}
	if verb.Checkpoint != "" {
		return writeCheckpoint(verb.Checkpoint, r.tracker.Checkpoint())
	}
	return nil
}

func writeCheckpoint(path string, c imagestate.Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Creating checkpoint %s", path)
	}
	if err := imagestate.EncodeCheckpoint(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readCheckpoint(path string) (imagestate.Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return imagestate.Checkpoint{}, errors.Wrapf(err, "Opening checkpoint %s", path)
	}
	defer f.Close()
	return imagestate.DecodeCheckpoint(f)
}
