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
	"cmp"
	"iter"
	"slices"
	"strings"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Axis selects the entity events are grouped by.
type Axis int

const (
	UserAxis Axis = iota
	ItemAxis
)

func (a Axis) String() string {
	switch a {
	case UserAxis:
		return "user"
	case ItemAxis:
		return "item"
	default:
		return "unknown"
	}
}

// ParseAxis parses "user" or "item".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return UserAxis, nil
	case "item":
		return ItemAxis, nil
	default:
		return 0, errors.NotValidf("axis `%s`", s)
	}
}

func (m *InteractionMatrix) entities(axis Axis) []int32 {
	if axis == ItemAxis {
		return m.itemIds
	}
	return m.userIds
}

// groupRows returns the entities in order of first appearance and the rows of each
// entity in log order.
func (m *InteractionMatrix) groupRows(axis Axis) ([]int32, map[int32][]int) {
	keys := m.entities(axis)
	var order []int32
	rows := make(map[int32][]int)
	for i, key := range keys {
		if _, exist := rows[key]; !exist {
			order = append(order, key)
		}
		rows[key] = append(rows[key], i)
	}
	return order, rows
}

// sortRows orders rows by ascending timestamp. Ties are broken by interaction id.
func (m *InteractionMatrix) sortRows(rows []int) {
	slices.SortStableFunc(rows, func(a, b int) int {
		if c := cmp.Compare(m.timestamps[a], m.timestamps[b]); c != 0 {
			return c
		}
		return cmp.Compare(m.interactionIds[a], m.interactionIds[b])
	})
}

func groupBy[T any](m *InteractionMatrix, axis Axis, sorted bool, value func(rows []int) []T) iter.Seq2[int32, []T] {
	return func(yield func(int32, []T) bool) {
		order, groups := m.groupRows(axis)
		for _, key := range order {
			rows := groups[key]
			if sorted {
				m.sortRows(rows)
			}
			if !yield(key, value(rows)) {
				return
			}
		}
	}
}

func (m *InteractionMatrix) itemsOf(rows []int) []int32 {
	return lo.Map(rows, func(row int, _ int) int32 {
		return m.itemIds[row]
	})
}

func (m *InteractionMatrix) interactionsOf(rows []int) []int {
	return lo.Map(rows, func(row int, _ int) int {
		return m.interactionIds[row]
	})
}

// BinaryItemHistory yields, per user, the distinct items in order of first interaction.
// Users are yielded in order of first appearance.
func (m *InteractionMatrix) BinaryItemHistory() iter.Seq2[int32, []int32] {
	return groupBy(m, UserAxis, false, func(rows []int) []int32 {
		return lo.Uniq(m.itemsOf(rows))
	})
}

// InteractionHistory yields, per user, the interaction ids in log order.
func (m *InteractionMatrix) InteractionHistory() iter.Seq2[int32, []int] {
	return groupBy(m, UserAxis, false, m.interactionsOf)
}

// SortedInteractionHistory yields, per user, the interaction ids sorted by timestamp.
func (m *InteractionMatrix) SortedInteractionHistory() (iter.Seq2[int32, []int], error) {
	return m.SortedInteractionHistoryBy(UserAxis)
}

// SortedInteractionHistoryBy yields, per user or per item, the interaction ids sorted by timestamp.
// Events with equal timestamps are ordered by interaction id.
func (m *InteractionMatrix) SortedInteractionHistoryBy(axis Axis) (iter.Seq2[int32, []int], error) {
	if !m.hasTimestamps {
		return nil, errors.WithType(errors.New("can't sort history without timestamps"), ErrMissingTimestamp)
	}
	return groupBy(m, axis, true, m.interactionsOf), nil
}

// SortedItemHistory yields, per user, the items sorted by timestamp.
func (m *InteractionMatrix) SortedItemHistory() (iter.Seq2[int32, []int32], error) {
	if !m.hasTimestamps {
		return nil, errors.WithType(errors.New("can't sort history without timestamps"), ErrMissingTimestamp)
	}
	return groupBy(m, UserAxis, true, m.itemsOf), nil
}
