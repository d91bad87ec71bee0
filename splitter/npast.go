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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/streamsight/base/log"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// NPastInteractionTimestampSplitter keeps, for every user (or item), the NSeqData most
// recent events before T as the past, and the events in [T, T+DeltaAfterT) as the future.
type NPastInteractionTimestampSplitter struct {
	T           float64
	DeltaAfterT float64
	NSeqData    int
	Axis        matrix.Axis
}

var _ Splitter = (*NPastInteractionTimestampSplitter)(nil)

// NewNPastInteractionTimestampSplitter fails with ErrInvalidParameter if nSeqData is
// negative, deltaAfterT is not positive or axis is unknown.
func NewNPastInteractionTimestampSplitter(t, deltaAfterT float64, nSeqData int, axis matrix.Axis) (*NPastInteractionTimestampSplitter, error) {
	s := &NPastInteractionTimestampSplitter{
		T:           t,
		DeltaAfterT: deltaAfterT,
		NSeqData:    nSeqData,
		Axis:        axis,
	}
	if err := s.validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return s, nil
}

func (s *NPastInteractionTimestampSplitter) validate() error {
	if s.NSeqData < 0 {
		return errors.WithType(errors.Errorf("number of past interactions must be non-negative, got %d", s.NSeqData),
			ErrInvalidParameter)
	}
	if s.DeltaAfterT <= 0 {
		return errors.WithType(errors.Errorf("delta after t must be positive, got %v", s.DeltaAfterT),
			ErrInvalidParameter)
	}
	if s.Axis != matrix.UserAxis && s.Axis != matrix.ItemAxis {
		return errors.WithType(errors.Errorf("unknown axis %d", s.Axis), ErrInvalidParameter)
	}
	return nil
}

func (s *NPastInteractionTimestampSplitter) Split(data *matrix.InteractionMatrix) (*matrix.InteractionMatrix, *matrix.InteractionMatrix, error) {
	if err := s.validate(); err != nil {
		return nil, nil, errors.Trace(err)
	}
	future, err := data.Filtered(matrix.And(matrix.TimestampsGTE(s.T), matrix.TimestampsLT(s.T+s.DeltaAfterT)))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	before, err := data.Filtered(matrix.TimestampsLT(s.T))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	history, err := before.SortedInteractionHistoryBy(s.Axis)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	// the last n events of each entity, or all of them if there are fewer
	recent := mapset.NewThreadUnsafeSet[int]()
	for _, ids := range history {
		recent.Append(ids[max(0, len(ids)-s.NSeqData):]...)
	}
	past, err := before.Filtered(matrix.Where(func(e matrix.Event) bool {
		return recent.Contains(e.InteractionId)
	}))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	log.Logger().Debug("split by past interactions",
		zap.Float64("t", s.T),
		zap.Stringer("axis", s.Axis),
		zap.Int("n_seq_data", s.NSeqData),
		zap.Int("num_past", past.NumInteractions()),
		zap.Int("num_future", future.NumInteractions()))
	return past, future, nil
}
