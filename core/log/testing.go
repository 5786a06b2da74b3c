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

package log

import (
	"context"
	"strings"
	"sync"
)

// Testing returns a default context with a TestHandler installed.
func Testing(t delegate) context.Context {
	return SubTest(context.Background(), t)
}

// SubTest returns the context with the TestHandler replaced with t.
func SubTest(ctx context.Context, t delegate) context.Context {
	return PutHandler(ctx, TestHandler(t))
}

// TestHandler is a Handler that uses t for logging. Error messages fail the
// test, fatal messages stop it.
func TestHandler(t delegate) Handler {
	if t == nil {
		panic("delegate cannot be nil")
	}
	return handler{
		handle: func(m *Message) {
			switch {
			case m.Severity >= Fatal:
				t.Fatal(m.Severity.Short(), " ", m.String())
			case m.Severity >= Error:
				t.Error(m.Severity.Short(), " ", m.String())
			default:
				t.Log(m.Severity.Short(), " ", m.String())
			}
		},
	}
}

type delegate interface {
	Fatal(...interface{})
	Error(...interface{})
	Log(...interface{})
}

// Recorder is a Handler that keeps every message it receives.
type Recorder struct {
	mutex    sync.Mutex
	messages []*Message
}

// Handle implements Handler.
func (r *Recorder) Handle(m *Message) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, m)
}

// Close implements Handler.
func (r *Recorder) Close() {}

// Messages returns the recorded messages.
func (r *Recorder) Messages() []*Message {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]*Message{}, r.messages...)
}

// Count returns the number of recorded messages at severity s whose text
// contains substr.
func (r *Recorder) Count(s Severity, substr string) int {
	n := 0
	for _, m := range r.Messages() {
		if m.Severity == s && strings.Contains(m.Text, substr) {
			n++
		}
	}
	return n
}

// Reset forgets all recorded messages.
func (r *Recorder) Reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = nil
}
