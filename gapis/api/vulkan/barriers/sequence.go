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

// Package barriers holds ordered batches of pipeline barriers, each batch
// partitioned by the queue family that must execute it.
package barriers

// Sequence is an ordered list of barrier batches. All the barriers of a batch
// must execute before any barrier of a later batch. Within a batch, the lists
// for different queue families are independent of each other.
type Sequence[B any] struct {
	batches [][][]B // batch -> queue family -> barriers
	count   int
}

// Add appends barrier to the list for queueFamily in the given batch,
// growing the sequence as needed. queueFamily must be a concrete queue
// family index.
func (s *Sequence[B]) Add(batch, queueFamily uint32, barrier B) {
	s.reserve(batch, queueFamily)
	s.batches[batch][queueFamily] = append(s.batches[batch][queueFamily], barrier)
	s.count++
}

func (s *Sequence[B]) reserve(batch, queueFamily uint32) {
	for uint32(len(s.batches)) <= batch {
		s.batches = append(s.batches, nil)
	}
	for uint32(len(s.batches[batch])) <= queueFamily {
		s.batches[batch] = append(s.batches[batch], nil)
	}
}

// Merge appends every barrier of other to the matching batch and queue
// family of s.
func (s *Sequence[B]) Merge(other *Sequence[B]) {
	for batch, families := range other.batches {
		for queueFamily, list := range families {
			if len(list) == 0 {
				continue
			}
			s.reserve(uint32(batch), uint32(queueFamily))
			s.batches[batch][queueFamily] = append(s.batches[batch][queueFamily], list...)
			s.count += len(list)
		}
	}
}

// IsBatchEmpty returns true if no queue family has a barrier in batch.
// Batches past the end of the sequence are empty.
func (s *Sequence[B]) IsBatchEmpty(batch uint32) bool {
	if batch >= uint32(len(s.batches)) {
		return true
	}
	for _, list := range s.batches[batch] {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

// Get returns the barriers of batch for queueFamily. The returned slice is
// owned by the sequence.
func (s *Sequence[B]) Get(batch, queueFamily uint32) []B {
	if batch >= uint32(len(s.batches)) || queueFamily >= uint32(len(s.batches[batch])) {
		return nil
	}
	return s.batches[batch][queueFamily]
}

// ExtractBatch removes the whole batch from the sequence, returning its
// barriers indexed by queue family.
func (s *Sequence[B]) ExtractBatch(batch uint32) [][]B {
	if batch >= uint32(len(s.batches)) {
		return nil
	}
	out := s.batches[batch]
	s.batches[batch] = nil
	for _, list := range out {
		s.count -= len(list)
	}
	return out
}

// ExtractFirstBatchForQueue finds the first batch with barriers for any
// queue family, and removes and returns its barriers for queueFamily. The
// result is empty if that batch has no barriers for queueFamily: later
// batches must wait for the barriers of other queue families.
func (s *Sequence[B]) ExtractFirstBatchForQueue(queueFamily uint32) []B {
	for batch := range s.batches {
		if !s.IsBatchEmpty(uint32(batch)) {
			return s.take(uint32(batch), queueFamily)
		}
	}
	return nil
}

// ExtractLastBatchForQueue is ExtractFirstBatchForQueue for the last batch
// with barriers for any queue family.
func (s *Sequence[B]) ExtractLastBatchForQueue(queueFamily uint32) []B {
	for batch := len(s.batches) - 1; batch >= 0; batch-- {
		if !s.IsBatchEmpty(uint32(batch)) {
			return s.take(uint32(batch), queueFamily)
		}
	}
	return nil
}

// Take removes and returns the barriers of batch for queueFamily.
func (s *Sequence[B]) Take(batch, queueFamily uint32) []B {
	if batch >= uint32(len(s.batches)) {
		return nil
	}
	return s.take(batch, queueFamily)
}

func (s *Sequence[B]) take(batch, queueFamily uint32) []B {
	families := s.batches[batch]
	if queueFamily >= uint32(len(families)) {
		return nil
	}
	out := families[queueFamily]
	families[queueFamily] = nil
	s.count -= len(out)
	return out
}

// Len returns the total number of barriers in the sequence.
func (s *Sequence[B]) Len() int { return s.count }

// Empty returns true if the sequence has no barriers.
func (s *Sequence[B]) Empty() bool { return s.count == 0 }

// BatchCount returns the number of batches, including empty ones.
func (s *Sequence[B]) BatchCount() uint32 { return uint32(len(s.batches)) }

// QueueFamilies returns the queue families with barriers in batch, in
// ascending order.
func (s *Sequence[B]) QueueFamilies(batch uint32) []uint32 {
	if batch >= uint32(len(s.batches)) {
		return nil
	}
	var out []uint32
	for queueFamily, list := range s.batches[batch] {
		if len(list) > 0 {
			out = append(out, uint32(queueFamily))
		}
	}
	return out
}

// Clear removes every barrier.
func (s *Sequence[B]) Clear() {
	s.batches = nil
	s.count = 0
}
