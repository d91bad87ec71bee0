// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package splitter

import (
	"github.com/gorse-io/streamsight/base/log"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// TimestampSplitter splits events at an absolute cutoff T. The first part holds the
// events before T and the second part the events from T on. Each part can be bounded
// by a window length.
type TimestampSplitter struct {
	T           float64
	DeltaBefore *float64
	DeltaAfter  *float64
}

var _ Splitter = (*TimestampSplitter)(nil)

// TimestampOption configures a TimestampSplitter.
type TimestampOption func(s *TimestampSplitter)

// WithDeltaBefore keeps only events with ts >= T-delta in the first part.
func WithDeltaBefore(delta float64) TimestampOption {
	return func(s *TimestampSplitter) {
		s.DeltaBefore = &delta
	}
}

// WithDeltaAfter keeps only events with ts < T+delta in the second part.
func WithDeltaAfter(delta float64) TimestampOption {
	return func(s *TimestampSplitter) {
		s.DeltaAfter = &delta
	}
}

// NewTimestampSplitter creates a splitter with cutoff t. Deltas must be non-negative.
func NewTimestampSplitter(t float64, opts ...TimestampOption) (*TimestampSplitter, error) {
	s := &TimestampSplitter{T: t}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return s, nil
}

func (s *TimestampSplitter) validate() error {
	if s.DeltaBefore != nil && *s.DeltaBefore < 0 {
		return errors.WithType(errors.Errorf("delta before must be non-negative, got %v", *s.DeltaBefore),
			ErrInvalidParameter)
	}
	if s.DeltaAfter != nil && *s.DeltaAfter < 0 {
		return errors.WithType(errors.Errorf("delta after must be non-negative, got %v", *s.DeltaAfter),
			ErrInvalidParameter)
	}
	return nil
}

func (s *TimestampSplitter) Split(data *matrix.InteractionMatrix) (*matrix.InteractionMatrix, *matrix.InteractionMatrix, error) {
	if err := s.validate(); err != nil {
		return nil, nil, errors.Trace(err)
	}
	before := []matrix.Selector{matrix.TimestampsLT(s.T)}
	if s.DeltaBefore != nil {
		before = append(before, matrix.TimestampsGTE(s.T-*s.DeltaBefore))
	}
	after := []matrix.Selector{matrix.TimestampsGTE(s.T)}
	if s.DeltaAfter != nil {
		after = append(after, matrix.TimestampsLT(s.T+*s.DeltaAfter))
	}
	first, err := data.Filtered(matrix.And(before...))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	second, err := data.Filtered(matrix.And(after...))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	log.Logger().Debug("split by timestamp",
		zap.Float64("t", s.T),
		zap.Int("num_before", first.NumInteractions()),
		zap.Int("num_after", second.NumInteractions()))
	return first, second, nil
}
