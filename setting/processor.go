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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/juju/errors"
)

// PredictionDataProcessor turns the past and future events of a split into the
// unlabeled data and the ground truth data.
type PredictionDataProcessor interface {
	Process(past, future *matrix.InteractionMatrix) (unlabeled, groundTruth *matrix.InteractionMatrix, err error)
}

// TopKProcessor keeps the first TopK future events of every entity as ground truth,
// and the past events of the same entities as unlabeled data.
type TopKProcessor struct {
	TopK int
	Axis matrix.Axis
}

var _ PredictionDataProcessor = (*TopKProcessor)(nil)

func (p *TopKProcessor) Process(past, future *matrix.InteractionMatrix) (*matrix.InteractionMatrix, *matrix.InteractionMatrix, error) {
	history, err := future.SortedInteractionHistoryBy(p.Axis)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	first := mapset.NewThreadUnsafeSet[int]()
	entities := mapset.NewThreadUnsafeSet[int32]()
	for entity, ids := range history {
		first.Append(ids[:min(len(ids), p.TopK)]...)
		entities.Add(entity)
	}
	groundTruth, err := future.Filtered(matrix.Where(func(e matrix.Event) bool {
		return first.Contains(e.InteractionId)
	}))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	unlabeled, err := past.Filtered(matrix.Where(func(e matrix.Event) bool {
		return entities.Contains(entityOf(e, p.Axis))
	}))
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return unlabeled, groundTruth, nil
}

func entityOf(e matrix.Event, axis matrix.Axis) int32 {
	if axis == matrix.ItemAxis {
		return e.ItemId
	}
	return e.UserId
}
