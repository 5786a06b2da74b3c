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

package imagestate

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// RefType classifies how a subresource was used during the capture. Its
// order is meaningful: None < Read < Write < ReadBeforeWrite.
type RefType uint8

const (
	RefNone RefType = iota
	RefRead
	RefWrite
	RefReadBeforeWrite
)

var refNames = [...]string{"NONE", "READ", "WRITE", "READ_BEFORE_WRITE"}

func (r RefType) String() string {
	if int(r) < len(refNames) {
		return refNames[r]
	}
	return fmt.Sprintf("RefType(%d)", uint8(r))
}

// MarshalText encodes the reference type by name.
func (r RefType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText decodes a reference type name.
func (r *RefType) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	for i, n := range refNames {
		if n == name {
			*r = RefType(i)
			return nil
		}
	}
	if name == "" {
		*r = RefNone
		return nil
	}
	return errors.Wrapf(ErrUnknownName, "Reference type '%s'", text)
}

// RefCompose combines the reference type of an earlier use with that of a
// later one.
type RefCompose func(first, second RefType) RefType

// ComposeRefs combines two uses that happen one after the other.
// A read followed by a write is a read before write. Once the contents are
// written, later uses cannot change the classification.
func ComposeRefs(first, second RefType) RefType {
	switch {
	case first == RefNone:
		return second
	case second == RefNone:
		return first
	case first == RefRead && (second == RefWrite || second == RefReadBeforeWrite):
		return RefReadBeforeWrite
	default:
		return first
	}
}

// ComposeRefsDisjoint combines uses of disjoint subresources or uses with no
// known order, keeping the most demanding one.
func ComposeRefsDisjoint(a, b RefType) RefType {
	if a > b {
		return a
	}
	return b
}

// ComposeRefsKeepFirst ignores the second use. It is used on the replay
// side where the capture classification must not change.
func ComposeRefsKeepFirst(first, second RefType) RefType { return first }
