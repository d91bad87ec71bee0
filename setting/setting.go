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

// Package setting builds evaluation scenarios from an interaction matrix. A setting
// splits the data into background data for training, unlabeled data visible at
// prediction time and ground truth data held out for evaluation.
package setting

import (
	"math"
	"math/rand"

	"github.com/gorse-io/streamsight/base/log"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/gorse-io/streamsight/splitter"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrNotReady is raised when the artifacts of a setting are read before Split.
const ErrNotReady = errors.ConstError("setting not ready")

// DegenerateSplitWarning is emitted when the background cutoff precedes every event.
const DegenerateSplitWarning log.Warning = "degenerate_split"

// DefaultDeltaAfterT is the default length of the future window. It acts as infinity.
const DefaultDeltaAfterT = float64(math.MaxInt32)

// Setting is an evaluation scenario. Artifact accessors fail with ErrNotReady until
// Split succeeds and return copies afterwards.
type Setting interface {
	// Split computes every artifact of the setting from data. Artifacts of a previous
	// call are replaced only if the call succeeds.
	Split(data *matrix.InteractionMatrix) error
	IsReady() bool
	// BackgroundData returns the events before the background cutoff, for training.
	BackgroundData() (*matrix.InteractionMatrix, error)
	// UnlabeledDataSeries returns the events visible at prediction time, one per split.
	UnlabeledDataSeries() ([]*matrix.InteractionMatrix, error)
	// GroundTruthDataSeries returns the held out events, one per split.
	GroundTruthDataSeries() ([]*matrix.InteractionMatrix, error)
	// DataTimestampLimit returns the cutoff of every split. Data at or after the
	// cutoff is never exposed as training data of that split.
	DataTimestampLimit() ([]float64, error)
	NumSplit() int
	Seed() int64
	TopK() int
	Axis() matrix.Axis
}

type options struct {
	deltaAfterT float64
	nSeqData    int
	topK        int
	axis        matrix.Axis
	seed        *int64
	processor   PredictionDataProcessor
}

// Option configures a setting.
type Option func(o *options)

// WithDeltaAfterT sets the length of the future window after the cutoff.
func WithDeltaAfterT(delta float64) Option {
	return func(o *options) {
		o.deltaAfterT = delta
	}
}

// WithNSeqData sets the number of most recent events per entity given as unlabeled data.
func WithNSeqData(n int) Option {
	return func(o *options) {
		o.nSeqData = n
	}
}

// WithTopK sets the number of future events per entity kept as ground truth.
func WithTopK(k int) Option {
	return func(o *options) {
		o.topK = k
	}
}

// WithAxis selects whether events are grouped by user or by item.
func WithAxis(axis matrix.Axis) Option {
	return func(o *options) {
		o.axis = axis
	}
}

// WithSeed fixes the seed. Without it a random seed is generated.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithProcessor replaces the default TopKProcessor.
func WithProcessor(processor PredictionDataProcessor) Option {
	return func(o *options) {
		o.processor = processor
	}
}

func newOptions(opts []Option) (options, error) {
	o := options{
		deltaAfterT: DefaultDeltaAfterT,
		nSeqData:    1,
		topK:        1,
		axis:        matrix.UserAxis,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.topK < 1 {
		return o, errors.WithType(errors.Errorf("top k must be positive, got %d", o.topK), splitter.ErrInvalidParameter)
	}
	if o.seed == nil {
		seed := rand.Int63n(math.MaxInt32)
		o.seed = &seed
	}
	if o.processor == nil {
		o.processor = &TopKProcessor{TopK: o.topK, Axis: o.axis}
	}
	return o, nil
}

// artifacts are the outputs of a split. They are published together.
type artifacts struct {
	background  *matrix.InteractionMatrix
	unlabeled   []*matrix.InteractionMatrix
	groundTruth []*matrix.InteractionMatrix
	incremental []*matrix.InteractionMatrix
	limits      []float64
}

type baseSetting struct {
	options
	backgroundT float64
	artifacts   *artifacts
}

func (s *baseSetting) IsReady() bool {
	return s.artifacts != nil
}

func (s *baseSetting) ready() error {
	if s.artifacts == nil {
		return errors.WithType(errors.New("call Split before accessing split data"), ErrNotReady)
	}
	return nil
}

func (s *baseSetting) BackgroundData() (*matrix.InteractionMatrix, error) {
	if err := s.ready(); err != nil {
		return nil, errors.Trace(err)
	}
	return s.artifacts.background.Copy(), nil
}

func (s *baseSetting) UnlabeledDataSeries() ([]*matrix.InteractionMatrix, error) {
	if err := s.ready(); err != nil {
		return nil, errors.Trace(err)
	}
	return copySeries(s.artifacts.unlabeled), nil
}

func (s *baseSetting) GroundTruthDataSeries() ([]*matrix.InteractionMatrix, error) {
	if err := s.ready(); err != nil {
		return nil, errors.Trace(err)
	}
	return copySeries(s.artifacts.groundTruth), nil
}

func (s *baseSetting) DataTimestampLimit() ([]float64, error) {
	if err := s.ready(); err != nil {
		return nil, errors.Trace(err)
	}
	return append([]float64(nil), s.artifacts.limits...), nil
}

// NumSplit returns the number of splits, or zero before Split.
func (s *baseSetting) NumSplit() int {
	if s.artifacts == nil {
		return 0
	}
	return len(s.artifacts.limits)
}

func (s *baseSetting) Seed() int64 {
	return *s.seed
}

func (s *baseSetting) TopK() int {
	return s.topK
}

func (s *baseSetting) Axis() matrix.Axis {
	return s.axis
}

func (s *baseSetting) BackgroundT() float64 {
	return s.backgroundT
}

// splitBackground checks the data and returns the events before the background cutoff.
func (s *baseSetting) splitBackground(data *matrix.InteractionMatrix, opts ...splitter.TimestampOption) (*matrix.InteractionMatrix, error) {
	if !data.HasTimestamps() {
		return nil, errors.WithType(errors.New("setting requires timestamps"), matrix.ErrMissingTimestamp)
	}
	if data.NumInteractions() > 0 {
		minTimestamp, err := data.MinTimestamp()
		if err != nil {
			return nil, errors.Trace(err)
		}
		if minTimestamp > s.backgroundT {
			log.Warn(DegenerateSplitWarning, "background cutoff is before the first timestamp, background data is empty",
				zap.Float64("background_t", s.backgroundT),
				zap.Float64("min_timestamp", minTimestamp))
		}
	}
	backgroundSplitter, err := splitter.NewTimestampSplitter(s.backgroundT, opts...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	background, _, err := backgroundSplitter.Split(data)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return background, nil
}

func copySeries(series []*matrix.InteractionMatrix) []*matrix.InteractionMatrix {
	return lo.Map(series, func(m *matrix.InteractionMatrix, _ int) *matrix.InteractionMatrix {
		return m.Copy()
	})
}
