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
	"io"
	"os"
	"sync"
	"time"

	charm "github.com/charmbracelet/log"
)

// Handler is the handler of log messages.
type Handler interface {
	Handle(*Message)
	Close()
}

type handler struct {
	handle func(*Message)
	close  func()
}

func (h handler) Handle(m *Message) { h.handle(m) }
func (h handler) Close() {
	if h.close != nil {
		h.close()
	}
}

// NewHandler returns a Handler that calls handle for each message and close
// when the handler is closed. close may be nil.
func NewHandler(handle func(*Message), close func()) Handler {
	return handler{handle, close}
}

// Broadcast forwards all messages sent to Broadcast to all the listeners.
func Broadcast(handlers ...Handler) Handler {
	return handler{
		handle: func(m *Message) {
			for _, h := range handlers {
				h.Handle(m)
			}
		},
		close: func() {
			for _, h := range handlers {
				h.Close()
			}
		},
	}
}

var charmLevels = map[Severity]charm.Level{
	Debug:   charm.DebugLevel,
	Info:    charm.InfoLevel,
	Warning: charm.WarnLevel,
	Error:   charm.ErrorLevel,
	Fatal:   charm.FatalLevel,
}

// Writer returns a Handler that formats messages with a console logger and
// writes them to w.
func Writer(w io.Writer) Handler {
	l := charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           charm.DebugLevel,
	})
	var mutex sync.Mutex
	return handler{
		handle: func(m *Message) {
			kv := make([]interface{}, 0, len(m.Values)*2)
			for _, v := range m.Values {
				kv = append(kv, v.Name, v.Value)
			}
			mutex.Lock()
			defer mutex.Unlock()
			l.SetPrefix(m.Tag)
			l.Log(charmLevels[m.Severity], m.Text, kv...)
		},
	}
}

// Std returns a Handler that writes to stderr.
func Std() Handler {
	return Writer(os.Stderr)
}
