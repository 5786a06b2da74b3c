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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bjoeris/renderdoc-sub002/core/fault"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/gapis/api/vulkan/imagestate"
	"github.com/bjoeris/renderdoc-sub002/gapis/config"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

const (
	errUnknownImage   = fault.Const("Unknown image name")
	errUnknownOp      = fault.Const("Unknown operation")
	errDuplicateImage = fault.Const("Duplicate image name")
)

// scenario is a list of image state operations, read from TOML:
//
//	[settings]
//	default_queue_family = 0
//
//	[[image]]
//	name = "color"
//	handle = 1
//	start = "UNDEFINED"
//	[image.info]
//	levels = 4
//	aspects = "COLOR"
//
//	[[op]]
//	kind = "transition"
//	image = "color"
//	layout = "GENERAL"
type scenario struct {
	Settings config.Settings `toml:"settings"`
	Images   []imageSpec     `toml:"image"`
	Ops      []op            `toml:"op"`
}

type imageSpec struct {
	Name   string               `toml:"name"`
	Handle imagestate.Handle    `toml:"handle"`
	Info   imagestate.ImageInfo `toml:"info"`
	// Start is "unknown", "initial" or the layout every subresource starts
	// in, owned by Queue.
	Start string `toml:"start"`
	Queue uint32 `toml:"queue"`
}

type op struct {
	Kind      string                       `toml:"kind"`
	Image     string                       `toml:"image"`
	Queue     uint32                       `toml:"queue"`
	Layout    imagestate.Layout            `toml:"layout"`
	Range     *imagestate.SubresourceRange `toml:"range"`
	SrcAccess imagestate.AccessFlags       `toml:"src_access"`
	DstAccess imagestate.AccessFlags       `toml:"dst_access"`
	Barrier   imagestate.ImageBarrier      `toml:"barrier"`
}

func (o op) subresources(s *imagestate.ImageState) imagestate.SubresourceRange {
	if o.Range != nil {
		return *o.Range
	}
	return imagestate.AllSubresources(s.Info().Aspects)
}

func parseScenario(r io.Reader) (scenario, error) {
	s := scenario{Settings: config.Default()}
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&s); err != nil {
		return scenario{}, errors.Wrap(err, "Decoding scenario")
	}
	return s, nil
}

func loadScenario(path string) (scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return scenario{}, errors.Wrapf(err, "Opening scenario %s", path)
	}
	defer f.Close()
	return parseScenario(f)
}

func (spec imageSpec) build() (*imagestate.ImageState, error) {
	s := imagestate.New(spec.Handle, spec.Info)
	switch strings.ToLower(spec.Start) {
	case "", "unknown":
		return s, nil
	case "initial":
		return s.InitialState(), nil
	}
	layout, err := imagestate.ParseLayout(spec.Start)
	if err != nil {
		return nil, errors.Wrapf(err, "Image %s", spec.Name)
	}
	return s.UniformState(imagestate.NewState(spec.Queue, layout)), nil
}

// runner applies the operations of a scenario to a tracker, writing the
// barriers of each operation to out.
type runner struct {
	out     io.Writer
	info    imagestate.TransitionInfo
	tracker *imagestate.Tracker
	ids     map[string]uuid.UUID
	order   []string
}

func newRunner(ctx context.Context, s scenario, out io.Writer) (*runner, error) {
	r := &runner{
		out:     out,
		info:    imagestate.NewTransitionInfo(s.Settings),
		tracker: imagestate.NewTracker(),
		ids:     map[string]uuid.UUID{},
	}
	for _, spec := range s.Images {
		if _, dup := r.ids[spec.Name]; dup {
			return nil, log.Errf(ctx, errDuplicateImage, "%q", spec.Name)
		}
		state, err := spec.build()
		if err != nil {
			return nil, err
		}
		r.ids[spec.Name] = r.tracker.Add(state)
		r.order = append(r.order, spec.Name)
	}
	return r, nil
}

func (r *runner) run(ctx context.Context, ops []op) error {
	for i, o := range ops {
		ctx := log.V{"op": i, "kind": o.Kind}.Bind(ctx)
		if err := r.apply(ctx, o); err != nil {
			return log.Errf(ctx, err, "Operation %d (%s)", i, o.Kind)
		}
	}
	return nil
}

func (r *runner) apply(ctx context.Context, o op) error {
	if o.Kind == "begin_capture" && o.Image == "" {
		r.tracker.BeginCapture()
		return nil
	}
	id, ok := r.ids[o.Image]
	if !ok {
		return log.Errf(ctx, errUnknownImage, "%q", o.Image)
	}
	seq := imagestate.BarrierSequence{}
	err := r.tracker.Update(ctx, id, func(s *imagestate.ImageState) error {
		switch o.Kind {
		case "transition":
			dst := s.UniformState(imagestate.NewState(o.Queue, o.Layout))
			if o.Range != nil {
				dst = s.CommandBufferInitialState()
				dst.Update(ctx, *o.Range, imagestate.NewState(o.Queue, o.Layout), imagestate.ComposeRefs)
			}
			s.Transition(ctx, dst, o.SrcAccess, o.DstAccess, &seq, r.info)
		case "barrier":
			s.RecordBarrier(ctx, o.Barrier, o.Queue)
		case "discard":
			s.DiscardContents(ctx, o.subresources(s))
		case "reset":
			s.ResetToOldState(ctx, &seq, r.info)
		case "begin_capture":
			s.BeginCapture()
		default:
			return log.Errf(ctx, errUnknownOp, "%q", o.Kind)
		}
		return nil
	})
	if err != nil {
		return err
	}
	printBarriers(r.out, o.Image, &seq)
	return nil
}

// printBarriers writes the barriers of seq, batch by batch.
func printBarriers(w io.Writer, name string, seq *imagestate.BarrierSequence) {
	for batch := uint32(0); batch < seq.BatchCount(); batch++ {
		for _, q := range seq.QueueFamilies(batch) {
			for _, b := range seq.Get(batch, q) {
				fmt.Fprintf(w, "%s: batch %d queue %d: %v\n", name, batch, q, b)
			}
		}
	}
}

// printStates writes the distinct cells of every image.
func (r *runner) printStates(ctx context.Context) {
	for _, name := range r.order {
		s, ok := r.tracker.Get(r.ids[name])
		if !ok {
			log.E(ctx, "Image %s is no longer tracked", name)
			continue
		}
		for _, cell := range s.ToArray() {
			fmt.Fprintf(r.out, "%s: %v %v\n", name, cell.Range, cell.State)
		}
		if n := len(s.PendingReleases()); n > 0 {
			log.W(ctx, "%s has %d pending queue family releases", name, n)
		}
	}
}
