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
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Checkpoint is a serializable snapshot of a Tracker.
type Checkpoint struct {
	Images []ImageCheckpoint `toml:"image"`
}

// ImageCheckpoint is a serializable snapshot of one ImageState.
type ImageCheckpoint struct {
	ID              uuid.UUID                  `toml:"id"`
	Handle          Handle                     `toml:"handle"`
	Info            ImageInfo                  `toml:"info"`
	MaxRef          RefType                    `toml:"max_ref"`
	Subresources    []SubresourceStateForRange `toml:"subresource"`
	PendingReleases []ImageBarrier             `toml:"pending_release"`
	PendingAcquires []ImageBarrier             `toml:"pending_acquire"`
}

// Checkpoint returns a snapshot of s stored under id.
func (s *ImageState) Checkpoint(id uuid.UUID) ImageCheckpoint {
	return ImageCheckpoint{
		ID:              id,
		Handle:          s.Handle,
		Info:            s.Info(),
		MaxRef:          s.maxRefType,
		Subresources:    s.ToArray(),
		PendingReleases: append([]ImageBarrier(nil), s.newQueueFamilyTransfers...),
		PendingAcquires: append([]ImageBarrier(nil), s.oldQueueFamilyTransfers...),
	}
}

// Restore rebuilds the ImageState saved in c.
func (c ImageCheckpoint) Restore(ctx context.Context) (*ImageState, error) {
	s := New(c.Handle, c.Info)
	if err := s.FromArray(ctx, c.Subresources); err != nil {
		return nil, err
	}
	s.maxRefType = c.MaxRef
	if len(c.PendingReleases) > 0 {
		s.newQueueFamilyTransfers = append([]ImageBarrier(nil), c.PendingReleases...)
	}
	if len(c.PendingAcquires) > 0 {
		s.oldQueueFamilyTransfers = append([]ImageBarrier(nil), c.PendingAcquires...)
	}
	return s, nil
}

// EncodeCheckpoint writes c to w as TOML.
func EncodeCheckpoint(w io.Writer, c Checkpoint) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(err, "Encoding checkpoint")
	}
	return nil
}

// DecodeCheckpoint reads a TOML checkpoint written by EncodeCheckpoint.
func DecodeCheckpoint(r io.Reader) (Checkpoint, error) {
	c := Checkpoint{}
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&c); err != nil {
		return Checkpoint{}, errors.Wrap(err, "Decoding checkpoint")
	}
	return c, nil
}
