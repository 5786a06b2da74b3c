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
	"bytes"
	"context"
	"flag"
	"testing"

	"github.com/bjoeris/renderdoc-sub002/core/assert"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/pkg/errors"
)

func TestVerbInvoke(t *testing.T) {
	ctx := log.Testing(t)
	root := &Verb{Name: "tool"}
	var got string
	var count int
	transition := &Verb{Name: "transition", Action: ActionFunc(func(ctx context.Context, flags *flag.FlagSet) error {
		got = "transition"
		return nil
	})}
	transition.Flags = flag.NewFlagSet("transition", flag.ContinueOnError)
	transition.Flags.IntVar(&count, "count", 0, "")
	root.Add(transition)
	root.Add(&Verb{Name: "reset", Action: ActionFunc(func(ctx context.Context, flags *flag.FlagSet) error {
		got = "reset:" + log.GetTag(ctx)
		return nil
	})})
	root.Add(&Verb{Name: "restore", Action: ActionFunc(func(context.Context, *flag.FlagSet) error { return nil })})

	assert.For(ctx, "exact").ThatError(root.Invoke(ctx, []string{"transition", "-count", "3"})).Succeeded()
	assert.For(ctx, "ran").That(got).Equals("transition")
	assert.For(ctx, "flag").That(count).Equals(3)

	assert.For(ctx, "prefix").ThatError(root.Invoke(ctx, []string{"rese"})).Succeeded()
	assert.For(ctx, "tag").That(got).Equals("reset:reset")

	err := root.Invoke(ctx, []string{"re"})
	assert.For(ctx, "ambiguous").ThatBoolean(errors.Is(err, ErrUsage)).IsTrue()
	err = root.Invoke(ctx, []string{"missing"})
	assert.For(ctx, "unknown").ThatBoolean(errors.Is(err, ErrUsage)).IsTrue()
	err = root.Invoke(ctx, nil)
	assert.For(ctx, "empty").ThatBoolean(errors.Is(err, ErrUsage)).IsTrue()
}

func TestVerbHelp(t *testing.T) {
	ctx := log.Testing(t)
	root := &Verb{Name: "tool", ShortHelp: "does things"}
	root.Add(&Verb{Name: "b", ShortHelp: "second"})
	root.Add(&Verb{Name: "a", ShortHelp: "first"})
	buf := &bytes.Buffer{}
	root.printHelp(buf)
	out := buf.String()
	assert.For(ctx, "order").ThatBoolean(bytes.Index(buf.Bytes(), []byte("first")) < bytes.Index(buf.Bytes(), []byte("second"))).IsTrue()
	assert.For(ctx, "help").ThatBoolean(len(out) > 0).IsTrue()
}

func TestDuplicateVerbPanics(t *testing.T) {
	ctx := log.Testing(t)
	root := &Verb{Name: "tool"}
	root.Add(&Verb{Name: "a"})
	defer func() {
		assert.For(ctx, "panic").That(recover()).IsNotNil()
	}()
	root.Add(&Verb{Name: "a"})
}
