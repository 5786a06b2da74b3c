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

package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bjoeris/renderdoc-sub002/core/log"
)

// Verb holds information about a runnable api command.
type Verb struct {
	Name       string        // The name of the command
	Action     Action        // The action to run for the command
	ShortHelp  string        // Help for the purpose of the command
	ShortUsage string        // Help for how to use the command
	Flags      *flag.FlagSet // The command line flags it accepts
	verbs      []*Verb
}

// Action is the interface for objects that implement a verb.
// The action's exported fields are not bound automatically, Flags should be
// registered by the action's constructor.
type Action interface {
	// Run is the method to perform the action associated with a verb.
	Run(ctx context.Context, flags *flag.FlagSet) error
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context, flags *flag.FlagSet) error

// Run calls f.
func (f ActionFunc) Run(ctx context.Context, flags *flag.FlagSet) error { return f(ctx, flags) }

var globalVerbs Verb

// Add adds a new verb to the supported set, it will panic if a
// duplicate name is encountered.
func (v *Verb) Add(child *Verb) {
	if child.Flags == nil {
		child.Flags = flag.NewFlagSet(child.Name, flag.ContinueOnError)
	}
	for _, existing := range v.verbs {
		if existing.Name == child.Name {
			panic(fmt.Errorf("Duplicate verb name %s", child.Name))
		}
	}
	v.verbs = append(v.verbs, child)
}

// Filter returns the filtered list of verbs who's names match the specified prefix.
// An exact name match always wins over prefix matches.
func (v *Verb) Filter(prefix string) (result []*Verb) {
	for _, child := range v.verbs {
		if child.Name == prefix {
			return []*Verb{child}
		}
		if strings.HasPrefix(child.Name, prefix) {
			result = append(result, child)
		}
	}
	return result
}

// Invoke runs a verb, handing it the command line arguments it should process.
func (v *Verb) Invoke(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usagef("Must supply a verb to %s", v.Name)
	}
	name := args[0]
	if name == "help" {
		v.printHelp(stdout)
		return nil
	}
	matches := v.Filter(name)
	switch len(matches) {
	case 1:
		selected := matches[0]
		if err := selected.Flags.Parse(args[1:]); err != nil {
			return usagef("%v", err)
		}
		ctx = log.PutTag(ctx, selected.Name)
		return selected.Action.Run(ctx, selected.Flags)
	case 0:
		return usagef("Verb '%s' is unknown", name)
	default:
		return usagef("Verb '%s' is ambiguous", name)
	}
}

func (v *Verb) printHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [flags] verb [verb_args]\n", v.Name)
	if v.ShortHelp != "" {
		fmt.Fprintln(w, v.ShortHelp)
	}
	fmt.Fprintln(w, "Verbs:")
	verbs := append([]*Verb{}, v.verbs...)
	sort.Slice(verbs, func(i, j int) bool { return verbs[i].Name < verbs[j].Name })
	for _, child := range verbs {
		fmt.Fprintf(w, "  %-12s %s\n", child.Name, child.ShortHelp)
	}
}

// AddVerb adds a new verb to the supported set, it will panic if a
// duplicate name is encountered.
func AddVerb(v *Verb) {
	globalVerbs.Add(v)
}

// FilterVerbs returns the filtered list of verbs who's names match the specified
// prefix.
func FilterVerbs(prefix string) (result []*Verb) {
	return globalVerbs.Filter(prefix)
}
