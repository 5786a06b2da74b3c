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

package interval_test

import (
	"testing"

	"github.com/bjoeris/renderdoc-sub002/core/assert"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/core/math/interval"
)

type r32 = interval.Range[uint32]

const remaining = ^uint32(0)

func TestOverlaps(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name   string
		a, b   r32
		expect bool
	}{
		{"disjoint", r32{0, 2}, r32{2, 2}, false},
		{"touching", r32{2, 2}, r32{0, 2}, false},
		{"inside", r32{1, 1}, r32{0, 4}, true},
		{"partial", r32{0, 3}, r32{2, 4}, true},
		{"remaining", r32{3, remaining}, r32{10, 1}, true},
		{"remaining before", r32{3, remaining}, r32{0, 3}, false},
	} {
		assert.For(ctx, test.name).ThatBoolean(interval.Overlaps(test.a, test.b)).Equals(test.expect)
		assert.For(ctx, "%s swapped", test.name).ThatBoolean(interval.Overlaps(test.b, test.a)).Equals(test.expect)
	}
}

func TestContainedIn(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name   string
		a, b   r32
		expect bool
	}{
		{"equal", r32{0, 4}, r32{0, 4}, true},
		{"inside", r32{1, 2}, r32{0, 4}, true},
		{"past end", r32{3, 2}, r32{0, 4}, false},
		{"before", r32{0, 2}, r32{1, 4}, false},
		{"remaining in remaining", r32{5, remaining}, r32{0, remaining}, true},
		{"remaining in bounded", r32{5, remaining}, r32{0, 8}, false},
	} {
		assert.For(ctx, test.name).ThatBoolean(interval.ContainedIn(test.a, test.b)).Equals(test.expect)
	}
}

func TestNormalize(t *testing.T) {
	ctx := log.Testing(t)
	n, clamped := r32{4, remaining}.Normalize()
	assert.For(ctx, "clamped").ThatBoolean(clamped).IsTrue()
	assert.For(ctx, "count").That(n.Count).Equals(remaining - 4)
	n, clamped = r32{4, 4}.Normalize()
	assert.For(ctx, "unclamped").ThatBoolean(clamped).IsFalse()
	assert.For(ctx, "range").That(n).Equals(r32{4, 4})
}

func TestIntersect(t *testing.T) {
	ctx := log.Testing(t)
	assert.For(ctx, "overlap").That(interval.Intersect(r32{0, 4}, r32{2, 6})).Equals(r32{2, 2})
	assert.For(ctx, "disjoint").That(interval.Intersect(r32{0, 2}, r32{5, 1}).Empty()).Equals(true)
	assert.For(ctx, "clamped end").That(interval.Intersect(r32{2, remaining}, r32{4, remaining})).
		Equals(r32{4, remaining - 4})
}
