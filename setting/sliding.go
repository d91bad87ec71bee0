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
	"math"

	"github.com/gorse-io/streamsight/base/log"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/gorse-io/streamsight/splitter"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// SlidingWindowSetting replays the data after the background cutoff as a stream of
// windows of equal length. Window k starts at BackgroundT + k*WindowSize. Every window
// yields its own unlabeled data, ground truth data and incremental data. Windows that
// end before the first event are skipped.
type SlidingWindowSetting struct {
	baseSetting
	windowSize float64
}

var _ Setting = (*SlidingWindowSetting)(nil)

// NewSlidingWindowSetting creates a sliding window setting. The window size replaces
// the length of the future window, so WithDeltaAfterT has no effect.
func NewSlidingWindowSetting(backgroundT, windowSize float64, opts ...Option) (*SlidingWindowSetting, error) {
	if windowSize <= 0 {
		return nil, errors.WithType(errors.Errorf("window size must be positive, got %v", windowSize),
			splitter.ErrInvalidParameter)
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	o.deltaAfterT = windowSize
	if o.nSeqData < 0 {
		return nil, errors.WithType(errors.Errorf("number of past interactions must be non-negative, got %d", o.nSeqData),
			splitter.ErrInvalidParameter)
	}
	log.Logger().Info("create sliding window setting",
		zap.Float64("background_t", backgroundT),
		zap.Float64("window_size", windowSize),
		zap.Int("n_seq_data", o.nSeqData),
		zap.Int("top_k", o.topK),
		zap.Stringer("axis", o.axis),
		zap.Int64("seed", *o.seed))
	return &SlidingWindowSetting{
		baseSetting: baseSetting{options: o, backgroundT: backgroundT},
		windowSize:  windowSize,
	}, nil
}

// firstWindow returns the index of the first window [t, t+WindowSize) that can hold
// an event at or after minTimestamp.
func (s *SlidingWindowSetting) firstWindow(minTimestamp float64) int {
	if minTimestamp <= s.backgroundT {
		return 0
	}
	return int(math.Floor((minTimestamp - s.backgroundT) / s.windowSize))
}

func (s *SlidingWindowSetting) WindowSize() float64 {
	return s.windowSize
}

// IncrementalDataSeries returns the events of every window. They are released to the
// model after the window has been evaluated.
func (s *SlidingWindowSetting) IncrementalDataSeries() ([]*matrix.InteractionMatrix, error) {
	if err := s.ready(); err != nil {
		return nil, errors.Trace(err)
	}
	return copySeries(s.artifacts.incremental), nil
}

func (s *SlidingWindowSetting) Split(data *matrix.InteractionMatrix) error {
	background, err := s.splitBackground(data)
	if err != nil {
		return errors.Trace(err)
	}
	result := &artifacts{background: background}
	if data.NumInteractions() > 0 {
		minTimestamp, err := data.MinTimestamp()
		if err != nil {
			return errors.Trace(err)
		}
		maxTimestamp, err := data.MaxTimestamp()
		if err != nil {
			return errors.Trace(err)
		}
		for k := s.firstWindow(minTimestamp); ; k++ {
			t := s.backgroundT + float64(k)*s.windowSize
			if t > maxTimestamp {
				break
			}
			recent, err := splitter.NewNPastInteractionTimestampSplitter(t, s.windowSize, s.nSeqData, s.axis)
			if err != nil {
				return errors.Trace(err)
			}
			past, future, err := recent.Split(data)
			if err != nil {
				return errors.Trace(err)
			}
			unlabeled, groundTruth, err := s.processor.Process(past, future)
			if err != nil {
				return errors.Trace(err)
			}
			log.Logger().Debug("split window",
				zap.Int("window", k),
				zap.Float64("t", t),
				zap.Int("num_unlabeled", unlabeled.NumInteractions()),
				zap.Int("num_ground_truth", groundTruth.NumInteractions()),
				zap.Int("num_incremental", future.NumInteractions()))
			result.unlabeled = append(result.unlabeled, unlabeled)
			result.groundTruth = append(result.groundTruth, groundTruth)
			result.incremental = append(result.incremental, future)
			result.limits = append(result.limits, t)
		}
	}
	s.artifacts = result
	log.Logger().Info("split data into sliding windows",
		zap.Float64("background_t", s.backgroundT),
		zap.Float64("window_size", s.windowSize),
		zap.Int("num_background", background.NumInteractions()),
		zap.Int("num_split", len(result.limits)))
	return nil
}
