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

// Package interval holds half open intervals over unsigned integers.
package interval

import "golang.org/x/exp/constraints"

// Range is an interval specified by a beginning and size.
type Range[T constraints.Unsigned] struct {
	First T // the first value in the interval
	Count T // the count of values in the interval
}

func maxValue[T constraints.Unsigned]() T { return ^T(0) }

// Normalize returns r with the count reduced so that First+Count does not
// overflow T. The second result reports whether the count was reduced.
func (r Range[T]) Normalize() (Range[T], bool) {
	if r.First+r.Count < r.First {
		return Range[T]{First: r.First, Count: maxValue[T]() - r.First}, true
	}
	return r, false
}

// End returns the first value after the normalized range.
func (r Range[T]) End() T {
	n, _ := r.Normalize()
	return n.First + n.Count
}

// Empty returns true if the range holds no values.
func (r Range[T]) Empty() bool { return r.Count == 0 }

// Overlaps returns true if a and b share at least one value.
func Overlaps[T constraints.Unsigned](a, b Range[T]) bool {
	if b.End() <= a.First {
		return false
	}
	if a.End() <= b.First {
		return false
	}
	return true
}

// ContainedIn returns true if every value of a is also in b.
func ContainedIn[T constraints.Unsigned](a, b Range[T]) bool {
	return a.First >= b.First && a.End() <= b.End()
}

// Intersect returns the values common to a and b. The result is empty when
// they do not overlap.
func Intersect[T constraints.Unsigned](a, b Range[T]) Range[T] {
	start, end := max(a.First, b.First), min(a.End(), b.End())
	if end <= start {
		return Range[T]{First: start}
	}
	return Range[T]{First: start, Count: end - start}
}
