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

package matrix

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/streamsight/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Selector marks the events of a matrix to keep. Bit i refers to the i-th event in log order.
type Selector func(m *InteractionMatrix) (*bitset.BitSet, error)

// Filtered returns a new matrix with the selected events. The shape is unchanged.
func (m *InteractionMatrix) Filtered(selector Selector) (*InteractionMatrix, error) {
	mask, err := m.mask(selector)
	if err != nil {
		return nil, errors.Trace(err)
	}
	filtered := &InteractionMatrix{
		hasTimestamps: m.hasTimestamps,
		shape:         m.shape,
	}
	filtered.assign(m, mask)
	return filtered, nil
}

// Retain keeps the selected events in place. The receiver is left untouched on error.
func (m *InteractionMatrix) Retain(selector Selector) error {
	mask, err := m.mask(selector)
	if err != nil {
		return errors.Trace(err)
	}
	m.assign(m, mask)
	return nil
}

func (m *InteractionMatrix) mask(selector Selector) (*bitset.BitSet, error) {
	mask, err := selector(m)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if mask.Count() == 0 && m.NumInteractions() > 0 {
		log.Warn(EmptySelectionWarning, "selection yields an empty interaction matrix",
			zap.Int("num_interactions", m.NumInteractions()))
	}
	return mask, nil
}

// assign copies the masked events of src into m. src may be m itself.
func (m *InteractionMatrix) assign(src *InteractionMatrix, mask *bitset.BitSet) {
	n := int(mask.Count())
	interactionIds := make([]int, 0, n)
	userIds := make([]int32, 0, n)
	itemIds := make([]int32, 0, n)
	var timestamps []float64
	if src.hasTimestamps {
		timestamps = make([]float64, 0, n)
	}
	for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
		interactionIds = append(interactionIds, src.interactionIds[i])
		userIds = append(userIds, src.userIds[i])
		itemIds = append(itemIds, src.itemIds[i])
		if src.hasTimestamps {
			timestamps = append(timestamps, src.timestamps[i])
		}
	}
	m.interactionIds = interactionIds
	m.userIds = userIds
	m.itemIds = itemIds
	m.timestamps = timestamps
}

func maskWhere(n int, keep func(i int) bool) *bitset.BitSet {
	mask := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if keep(i) {
			mask.Set(uint(i))
		}
	}
	return mask
}

// UsersIn selects the events of the given users.
func UsersIn(users ...int32) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		log.Logger().Debug("select users in", zap.Int("num_users", len(users)))
		set := mapset.NewThreadUnsafeSet(users...)
		return maskWhere(m.NumInteractions(), func(i int) bool {
			return set.Contains(m.userIds[i])
		}), nil
	}
}

// UsersNotIn selects the events of users other than the given ones.
func UsersNotIn(users ...int32) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		log.Logger().Debug("select users not in", zap.Int("num_users", len(users)))
		set := mapset.NewThreadUnsafeSet(users...)
		return maskWhere(m.NumInteractions(), func(i int) bool {
			return !set.Contains(m.userIds[i])
		}), nil
	}
}

// ItemsIn selects the events on the given items.
func ItemsIn(items ...int32) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		log.Logger().Debug("select items in", zap.Int("num_items", len(items)))
		set := mapset.NewThreadUnsafeSet(items...)
		return maskWhere(m.NumInteractions(), func(i int) bool {
			return set.Contains(m.itemIds[i])
		}), nil
	}
}

// ItemsNotIn selects the events on items other than the given ones.
func ItemsNotIn(items ...int32) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		log.Logger().Debug("select items not in", zap.Int("num_items", len(items)))
		set := mapset.NewThreadUnsafeSet(items...)
		return maskWhere(m.NumInteractions(), func(i int) bool {
			return !set.Contains(m.itemIds[i])
		}), nil
	}
}

// InteractionsIn selects events by interaction id. Ids absent from the matrix are
// ignored with a warning.
func InteractionsIn(interactionIds ...int) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		log.Logger().Debug("select interactions in", zap.Int("num_interactions", len(interactionIds)))
		if len(interactionIds) == 0 {
			return bitset.New(uint(m.NumInteractions())), nil
		}
		requested := mapset.NewThreadUnsafeSet(interactionIds...)
		present := mapset.NewThreadUnsafeSet(m.interactionIds...)
		if unknown := requested.Difference(present); unknown.Cardinality() > 0 {
			ids := unknown.ToSlice()
			slices.Sort(ids)
			log.Warn(UnknownIdentifierWarning, "interaction ids not present in data", zap.Ints("interaction_ids", ids))
		}
		return maskWhere(m.NumInteractions(), func(i int) bool {
			return requested.Contains(m.interactionIds[i])
		}), nil
	}
}

func indexKey(user, item int32) uint64 {
	return (uint64(uint32(user)) << 32) | uint64(uint32(item))
}

// IndicesIn selects the events of the given (users[k], items[k]) pairs. Every pair
// must occur in the matrix.
func IndicesIn(users, items []int32) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		log.Logger().Debug("select indices in", zap.Int("num_indices", len(users)))
		if len(users) != len(items) {
			return nil, errors.WithType(errors.Errorf("got %d users but %d items", len(users), len(items)),
				ErrInvalidSource)
		}
		index := mapset.NewThreadUnsafeSetWithSize[uint64](m.NumInteractions())
		for i := range m.userIds {
			index.Add(indexKey(m.userIds[i], m.itemIds[i]))
		}
		requested := mapset.NewThreadUnsafeSetWithSize[uint64](len(users))
		for k := range users {
			key := indexKey(users[k], items[k])
			if !index.Contains(key) {
				return nil, errors.WithType(errors.Errorf("(user %d, item %d) not found", users[k], items[k]),
					ErrUnknownIndex)
			}
			requested.Add(key)
		}
		return maskWhere(m.NumInteractions(), func(i int) bool {
			return requested.Contains(indexKey(m.userIds[i], m.itemIds[i]))
		}), nil
	}
}

// Comparison is a relation between an event timestamp and a threshold.
type Comparison int

const (
	GT Comparison = iota
	GE
	LT
	LE
)

func (c Comparison) String() string {
	switch c {
	case GT:
		return ">"
	case GE:
		return ">="
	case LT:
		return "<"
	case LE:
		return "<="
	default:
		return "?"
	}
}

// Compare returns whether `ts <c> threshold` holds.
func (c Comparison) Compare(ts, threshold float64) bool {
	switch c {
	case GT:
		return ts > threshold
	case GE:
		return ts >= threshold
	case LT:
		return ts < threshold
	case LE:
		return ts <= threshold
	default:
		panic("unknown comparison")
	}
}

// Timestamps selects the events whose timestamp satisfies `ts <c> threshold`.
func Timestamps(c Comparison, threshold float64) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		if !m.hasTimestamps {
			return nil, errors.WithType(errors.Errorf("can't compare timestamps %v %v", c, threshold),
				ErrMissingTimestamp)
		}
		log.Logger().Debug("select timestamps", zap.Stringer("comparison", c), zap.Float64("timestamp", threshold))
		return maskWhere(m.NumInteractions(), func(i int) bool {
			return c.Compare(m.timestamps[i], threshold)
		}), nil
	}
}

func TimestampsGT(t float64) Selector {
	return Timestamps(GT, t)
}

func TimestampsGTE(t float64) Selector {
	return Timestamps(GE, t)
}

func TimestampsLT(t float64) Selector {
	return Timestamps(LT, t)
}

func TimestampsLTE(t float64) Selector {
	return Timestamps(LE, t)
}

// Where selects the events satisfying the predicate.
func Where(predicate func(e Event) bool) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		return maskWhere(m.NumInteractions(), func(i int) bool {
			return predicate(m.event(i))
		}), nil
	}
}

// MinItemsPerUser selects the events of users who interacted with at least n distinct items.
func MinItemsPerUser(n int) Selector {
	return minDistinct(UserAxis, n)
}

// MinUsersPerItem selects the events on items that at least n distinct users interacted with.
func MinUsersPerItem(n int) Selector {
	return minDistinct(ItemAxis, n)
}

func minDistinct(axis Axis, n int) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		entities, others := m.userIds, m.itemIds
		if axis == ItemAxis {
			entities, others = m.itemIds, m.userIds
		}
		distinct := make(map[int32]mapset.Set[int32])
		for i, entity := range entities {
			set, ok := distinct[entity]
			if !ok {
				set = mapset.NewThreadUnsafeSet[int32]()
				distinct[entity] = set
			}
			set.Add(others[i])
		}
		log.Logger().Debug("select by distinct count",
			zap.Stringer("axis", axis), zap.Int("min_count", n), zap.Int("num_entities", len(distinct)))
		return maskWhere(len(entities), func(i int) bool {
			return distinct[entities[i]].Cardinality() >= n
		}), nil
	}
}

// And selects the events kept by every selector.
func And(selectors ...Selector) Selector {
	return func(m *InteractionMatrix) (*bitset.BitSet, error) {
		mask := bitset.New(uint(m.NumInteractions())).Complement()
		for _, selector := range selectors {
			other, err := selector(m)
			if err != nil {
				return nil, errors.Trace(err)
			}
			mask.InPlaceIntersection(other)
		}
		return mask, nil
	}
}
