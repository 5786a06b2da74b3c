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

// Package fault provides constant error values that can be compared with ==
// and errors.Is.
package fault

// Const is the type for constant error values.
type Const string

// Error implements error for Const returning the string value of the const.
func (e Const) Error() string { return string(e) }

// Recovered converts a value returned by recover into an error.
// A nil value gives a nil error, an error is returned unchanged and anything
// else becomes a Const holding its formatted value.
func Recovered(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case error:
		return v
	case string:
		return Const(v)
	default:
		return Const("panic: unexpected value")
	}
}
