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
	"path/filepath"

	"github.com/bjoeris/renderdoc-sub002/core/app"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

type watchVerb struct{ runVerb }

func init() {
	verb := &watchVerb{}
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags.StringVar(&verb.Settings, "settings", "", "TOML settings file overriding the scenario's [settings]")
	flags.BoolVar(&verb.Quiet, "quiet", false, "Do not print the final image states")
	app.AddVerb(&app.Verb{
		Name:       "watch",
		ShortHelp:  "Runs a scenario again each time the file changes",
		ShortUsage: "<scenario.toml>",
		Action:     verb,
		Flags:      flags,
	})
}

func (verb *watchVerb) Run(ctx context.Context, flags *flag.FlagSet) error {
	if flags.NArg() != 1 {
		return errors.Wrapf(app.ErrUsage, "Exactly one scenario file expected, got %d", flags.NArg())
	}
	path, err := filepath.Abs(flags.Arg(0))
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "Creating file watcher")
	}
	defer watcher.Close()
	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "Watching %s", path)
	}

	verb.rerun(ctx, path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) == path && e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				verb.rerun(ctx, path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.W(ctx, "Watching %s: %v", path, err)
		}
	}
}

func (verb *watchVerb) rerun(ctx context.Context, path string) {
	log.I(ctx, "Running %s", path)
	if err := verb.runFile(ctx, path); err != nil {
		log.E(ctx, "%v", err)
	}
}
