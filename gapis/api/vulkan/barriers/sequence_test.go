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

package barriers_test

import (
	"testing"

	"github.com/bjoeris/renderdoc-sub002/core/assert"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/bjoeris/renderdoc-sub002/gapis/api/vulkan/barriers"
)

func TestAddGrowsAndCounts(t *testing.T) {
	ctx := log.Testing(t)
	s := barriers.Sequence[string]{}
	assert.For(ctx, "empty").ThatBoolean(s.Empty()).IsTrue()
	s.Add(1, 2, "a")
	s.Add(1, 2, "b")
	s.Add(3, 0, "c")
	assert.For(ctx, "len").ThatInteger(s.Len()).Equals(3)
	assert.For(ctx, "batches").That(s.BatchCount()).Equals(uint32(4))
	assert.For(ctx, "batch 0").ThatBoolean(s.IsBatchEmpty(0)).IsTrue()
	assert.For(ctx, "batch 1").ThatBoolean(s.IsBatchEmpty(1)).IsFalse()
	assert.For(ctx, "out of range").ThatBoolean(s.IsBatchEmpty(9)).IsTrue()
	assert.For(ctx, "get").That(s.Get(1, 2)).DeepEquals([]string{"a", "b"})
	assert.For(ctx, "families").That(s.QueueFamilies(1)).DeepEquals([]uint32{2})
}

func TestMerge(t *testing.T) {
	ctx := log.Testing(t)
	a := barriers.Sequence[int]{}
	a.Add(0, 0, 1)
	b := barriers.Sequence[int]{}
	b.Add(0, 0, 2)
	b.Add(2, 1, 3)
	a.Merge(&b)
	assert.For(ctx, "len").ThatInteger(a.Len()).Equals(3)
	assert.For(ctx, "concat").That(a.Get(0, 0)).DeepEquals([]int{1, 2})
	assert.For(ctx, "grown").That(a.Get(2, 1)).DeepEquals([]int{3})
}

func TestExtractForQueue(t *testing.T) {
	ctx := log.Testing(t)
	s := barriers.Sequence[int]{}
	s.Add(0, 1, 10)
	s.Add(1, 0, 20)
	s.Add(2, 0, 30)
	s.Add(2, 0, 31)

	assert.For(ctx, "first waits on other queue").ThatSlice(s.ExtractFirstBatchForQueue(0)).IsEmpty()
	assert.For(ctx, "untouched").ThatInteger(s.Len()).Equals(4)
	assert.For(ctx, "other queue").That(s.ExtractFirstBatchForQueue(1)).DeepEquals([]int{10})
	assert.For(ctx, "first").That(s.ExtractFirstBatchForQueue(0)).DeepEquals([]int{20})
	assert.For(ctx, "last").That(s.ExtractLastBatchForQueue(0)).DeepEquals([]int{30, 31})
	assert.For(ctx, "drained").ThatBoolean(s.Empty()).IsTrue()
	assert.For(ctx, "none left").ThatSlice(s.ExtractFirstBatchForQueue(0)).IsEmpty()
}

func TestExtractLastForQueue(t *testing.T) {
	ctx := log.Testing(t)
	s := barriers.Sequence[int]{}
	s.Add(0, 0, 1)
	s.Add(3, 1, 2)
	assert.For(ctx, "last is on queue 1").ThatSlice(s.ExtractLastBatchForQueue(0)).IsEmpty()
	assert.For(ctx, "len").ThatInteger(s.Len()).Equals(2)
	assert.For(ctx, "take").That(s.Take(3, 1)).DeepEquals([]int{2})
	assert.For(ctx, "take out of range").ThatSlice(s.Take(9, 0)).IsEmpty()
	assert.For(ctx, "then first").That(s.ExtractLastBatchForQueue(0)).DeepEquals([]int{1})
}

func TestExtractBatch(t *testing.T) {
	ctx := log.Testing(t)
	s := barriers.Sequence[int]{}
	s.Add(1, 0, 1)
	s.Add(1, 2, 2)
	s.Add(2, 0, 3)
	batch := s.ExtractBatch(1)
	assert.For(ctx, "families").ThatSlice(batch).IsLength(3)
	assert.For(ctx, "q2").That(batch[2]).DeepEquals([]int{2})
	assert.For(ctx, "len").ThatInteger(s.Len()).Equals(1)
	assert.For(ctx, "emptied").ThatBoolean(s.IsBatchEmpty(1)).IsTrue()
	assert.For(ctx, "missing").ThatSlice(s.ExtractBatch(7)).IsEmpty()
}
