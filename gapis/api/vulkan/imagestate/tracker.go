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
	"bytes"
	"context"
	"sync"

	"github.com/bjoeris/renderdoc-sub002/core/fault"
	"github.com/bjoeris/renderdoc-sub002/core/log"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// ErrUnknownImage is returned when a Tracker is asked for an image it does
// not hold.
const ErrUnknownImage = fault.Const("Unknown image")

// Tracker holds the states of a set of images, keyed by a generated
// identifier. It is safe for concurrent use.
type Tracker struct {
	mutex  sync.Mutex
	images map[uuid.UUID]*ImageState
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{images: map[uuid.UUID]*ImageState{}}
}

// Add starts tracking s and returns its identifier.
func (t *Tracker) Add(s *ImageState) uuid.UUID {
	id := uuid.New()
	t.Put(id, s)
	return id
}

// Put tracks s under id, replacing any image with the same identifier.
func (t *Tracker) Put(id uuid.UUID, s *ImageState) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.images[id] = s
}

// Get returns a copy of the state of the image id.
func (t *Tracker) Get(id uuid.UUID) (*ImageState, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	s, ok := t.images[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Remove stops tracking the image id. It returns false if the image was not
// tracked.
func (t *Tracker) Remove(id uuid.UUID) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	_, ok := t.images[id]
	delete(t.images, id)
	return ok
}

// Len returns the number of tracked images.
func (t *Tracker) Len() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.images)
}

// IDs returns the identifiers of the tracked images in ascending order.
func (t *Tracker) IDs() []uuid.UUID {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.sortedIDs()
}

func (t *Tracker) sortedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.images))
	for id := range t.images {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

// Update calls f with the state of image id while holding the tracker's
// lock.
func (t *Tracker) Update(ctx context.Context, id uuid.UUID, f func(*ImageState) error) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	s, ok := t.images[id]
	if !ok {
		return log.Errf(ctx, ErrUnknownImage, "Image %v", id)
	}
	return f(s)
}

// Merge folds the per-image states of one command buffer into the tracked
// states.
func (t *Tracker) Merge(ctx context.Context, states map[uuid.UUID]*ImageState, compose RefCompose) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	MergeStates(ctx, t.images, states, compose)
}

// BeginCapture calls BeginCapture on every tracked image.
func (t *Tracker) BeginCapture() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	for _, s := range t.images {
		s.BeginCapture()
	}
}

// Checkpoint returns a snapshot of every tracked image.
func (t *Tracker) Checkpoint() Checkpoint {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	c := Checkpoint{Images: make([]ImageCheckpoint, 0, len(t.images))}
	for _, id := range t.sortedIDs() {
		c.Images = append(c.Images, t.images[id].Checkpoint(id))
	}
	return c
}

// Restore replaces the tracked images with the ones in c. On error the
// tracker is unchanged.
func (t *Tracker) Restore(ctx context.Context, c Checkpoint) error {
	images := make(map[uuid.UUID]*ImageState, len(c.Images))
	for _, ic := range c.Images {
		s, err := ic.Restore(ctx)
		if err != nil {
			return log.Errf(ctx, err, "Restoring image %v", ic.ID)
		}
		images[ic.ID] = s
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.images = images
	return nil
}
