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
	"fmt"
	"io"
	"os"

	"github.com/bjoeris/renderdoc-sub002/core/app"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/gapis/api/vulkan/imagestate"
	"github.com/bjoeris/renderdoc-sub002/gapis/config"
	"github.com/pkg/errors"
)

var stdout io.Writer = os.Stdout

type resetVerb struct {
	Settings string
	Output   string
}

func init() {
	verb := &resetVerb{}
	flags := flag.NewFlagSet("reset", flag.ContinueOnError)
	flags.StringVar(&verb.Settings, "settings", "", "TOML settings file")
	flags.StringVar(&verb.Output, "o", "", "Write the reset image states to this file")
	app.AddVerb(&app.Verb{
		Name:       "reset",
		ShortHelp:  "Prints the barriers that return every image of a checkpoint to its starting state",
		ShortUsage: "<checkpoint.toml>",
		Action:     verb,
		Flags:      flags,
	})

	app.AddVerb(&app.Verb{
		Name:       "show",
		ShortHelp:  "Prints the image states of a checkpoint",
		ShortUsage: "<checkpoint.toml>",
		Action:     app.ActionFunc(showCheckpoint),
	})
}

func (verb *resetVerb) Run(ctx context.Context, flags *flag.FlagSet) error {
	if flags.NArg() != 1 {
		return errors.Wrapf(app.ErrUsage, "Exactly one checkpoint file expected, got %d", flags.NArg())
	}
	settings := config.Default()
	if verb.Settings != "" {
		var err error
		if settings, err = config.Load(verb.Settings); err != nil {
			return err
		}
	}
	info := imagestate.NewTransitionInfo(settings)

	c, err := readCheckpoint(flags.Arg(0))
	if err != nil {
		return err
	}
	tracker := imagestate.NewTracker()
	if err := tracker.Restore(ctx, c); err != nil {
		return err
	}
	total := 0
	for _, id := range tracker.IDs() {
		err := tracker.Update(ctx, id, func(s *imagestate.ImageState) error {
			seq := imagestate.BarrierSequence{}
			s.ResetToOldState(ctx, &seq, info)
			total += seq.Len()
			printBarriers(stdout, id.String(), &seq)
			return nil
		})
		if err != nil {
			return err
		}
	}
	log.I(ctx, "Reset %d images with %d barriers", tracker.Len(), total)
	if verb.Output != "" {
		return writeCheckpoint(verb.Output, tracker.Checkpoint())
	}
	return nil
}

func showCheckpoint(ctx context.Context, flags *flag.FlagSet) error {
	if flags.NArg() != 1 {
		return errors.Wrapf(app.ErrUsage, "Exactly one checkpoint file expected, got %d", flags.NArg())
	}
	c, err := readCheckpoint(flags.Arg(0))
	if err != nil {
		return err
	}
	for _, ic := range c.Images {
		s, err := ic.Restore(ctx)
		if err != nil {
			return log.Errf(ctx, err, "Image %v", ic.ID)
		}
		fmt.Fprintf(stdout, "%v handle 0x%x %d levels %d layers depth %d %v (max ref %v)\n",
			ic.ID, uint64(s.Handle), s.Info().Levels, s.Info().Layers, s.Info().Depth, s.Info().Aspects, s.MaxRef())
		for _, cell := range s.ToArray() {
			fmt.Fprintf(stdout, "  %v %v\n", cell.Range, cell.State)
		}
		for _, b := range s.PendingReleases() {
			fmt.Fprintf(stdout, "  pending release %v\n", b)
		}
		for _, b := range s.PendingAcquires() {
			fmt.Fprintf(stdout, "  pending acquire %v\n", b)
		}
	}
	return nil
}
