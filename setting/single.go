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

package setting

import (
	"github.com/gorse-io/streamsight/base/log"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/gorse-io/streamsight/splitter"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// SingleTimePointSetting splits data at a single cutoff. Events before the cutoff are
// background data. The most recent events of every entity before the cutoff and the
// events in the window after it are handed to the processor.
type SingleTimePointSetting struct {
	baseSetting
	splitter *splitter.NPastInteractionTimestampSplitter
}

var _ Setting = (*SingleTimePointSetting)(nil)

func NewSingleTimePointSetting(backgroundT float64, opts ...Option) (*SingleTimePointSetting, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	recent, err := splitter.NewNPastInteractionTimestampSplitter(backgroundT, o.deltaAfterT, o.nSeqData, o.axis)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("create single time point setting",
		zap.Float64("background_t", backgroundT),
		zap.Float64("delta_after_t", o.deltaAfterT),
		zap.Int("n_seq_data", o.nSeqData),
		zap.Int("top_k", o.topK),
		zap.Stringer("axis", o.axis),
		zap.Int64("seed", *o.seed))
	return &SingleTimePointSetting{
		baseSetting: baseSetting{options: o, backgroundT: backgroundT},
		splitter:    recent,
	}, nil
}

func (s *SingleTimePointSetting) DeltaAfterT() float64 {
	return s.deltaAfterT
}

func (s *SingleTimePointSetting) NSeqData() int {
	return s.nSeqData
}

func (s *SingleTimePointSetting) Split(data *matrix.InteractionMatrix) error {
	background, err := s.splitBackground(data, splitter.WithDeltaAfter(s.deltaAfterT))
	if err != nil {
		return errors.Trace(err)
	}
	past, future, err := s.splitter.Split(data)
	if err != nil {
		return errors.Trace(err)
	}
	unlabeled, groundTruth, err := s.processor.Process(past, future)
	if err != nil {
		return errors.Trace(err)
	}
	s.artifacts = &artifacts{
		background:  background,
		unlabeled:   []*matrix.InteractionMatrix{unlabeled},
		groundTruth: []*matrix.InteractionMatrix{groundTruth},
		limits:      []float64{s.backgroundT},
	}
	log.Logger().Info("split data at single time point",
		zap.Float64("background_t", s.backgroundT),
		zap.Int("num_background", background.NumInteractions()),
		zap.Int("num_unlabeled", unlabeled.NumInteractions()),
		zap.Int("num_ground_truth", groundTruth.NumInteractions()))
	return nil
}
