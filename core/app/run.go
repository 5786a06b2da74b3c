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

// Package app provides the verb based main entry point for command line
// tools.
package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bjoeris/renderdoc-sub002/core/fault"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/pkg/errors"
)

var (
	// Name is the full name of the application
	Name = filepath.Base(os.Args[0])
	// ShortHelp should be set to add a help message to the usage text.
	ShortHelp = ""
	// ExitFuncForTesting can be set to change the behaviour when there is a
	// command line parsing failure. It defaults to os.Exit.
	ExitFuncForTesting = os.Exit

	stdout io.Writer = os.Stdout
)

// ErrUsage is the cause of all command line usage failures.
const ErrUsage = fault.Const("Usage error")

// ExitCode can be returned from a verb to exit with a specific status.
type ExitCode int

func (c ExitCode) Error() string { return fmt.Sprintf("exit code %d", int(c)) }

func usagef(msg string, args ...interface{}) error {
	return errors.Wrapf(ErrUsage, msg, args...)
}

// Flags are the options common to every verb.
type Flags struct {
	Level string
}

// Run performs all the work needed to start up an application.
// It parses the main command line arguments, builds a primary context that
// is cancelled on interrupt and then invokes the selected verb.
func Run(args []string) {
	code := run(context.Background(), args)
	if code != 0 {
		ExitFuncForTesting(code)
	}
}

func run(ctx context.Context, args []string) (code int) {
	handler := log.Std()
	defer handler.Close()

	appFlags := &Flags{}
	globalVerbs.Name = Name
	globalVerbs.ShortHelp = ShortHelp
	globalVerbs.Flags = flag.NewFlagSet(Name, flag.ContinueOnError)
	globalVerbs.Flags.StringVar(&appFlags.Level, "log-level", log.Info.String(), "The minimum severity to log")
	if err := globalVerbs.Flags.Parse(args); err != nil {
		return 2
	}
	level, err := log.ParseSeverity(appFlags.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx = log.PutHandler(ctx, handler)
	ctx = log.PutFilter(ctx, level)
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.F(ctx, false, "Panic: %v", fault.Recovered(r))
			code = 3
		}
	}()

	err = globalVerbs.Invoke(ctx, globalVerbs.Flags.Args())
	var exit ExitCode
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exit):
		return int(exit)
	case errors.Is(err, ErrUsage):
		log.E(ctx, "%v", err)
		globalVerbs.printHelp(os.Stderr)
		return 2
	default:
		log.F(ctx, false, "Main failed\nError: %v", err)
		return 1
	}
}
