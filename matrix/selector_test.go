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
	"testing"

	"github.com/gorse-io/streamsight/base/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeWarnings(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(log.ReplaceLogger(zap.New(core)))
	return logs
}

func warningsOf(logs *observer.ObservedLogs, kind log.Warning) int {
	return logs.FilterField(zap.String(log.WarningKey, string(kind))).Len()
}

func newSelectorMatrix(t *testing.T) *InteractionMatrix {
	return newTestMatrix(t,
		[]int32{0, 0, 1, 1, 2, 3},
		[]int32{0, 1, 1, 2, 2, 0},
		[]float64{1, 2, 3, 4, 5, 6},
		WithShape(Shape{NumUsers: 5, NumItems: 4}))
}

func TestUsersIn(t *testing.T) {
	m := newSelectorMatrix(t)
	filtered, err := m.Filtered(UsersIn(0, 2, 4))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4}, filtered.InteractionIds())
	assert.Equal(t, m.Shape(), filtered.Shape())
	assert.True(t, filtered.HasTimestamps())
	assert.Equal(t, 6, m.NumInteractions())

	filtered, err = m.Filtered(UsersNotIn(0, 2, 4))
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 3, 5}, filtered.InteractionIds())
}

func TestItemsIn(t *testing.T) {
	m := newSelectorMatrix(t)
	filtered, err := m.Filtered(ItemsIn(1, 2))
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, filtered.InteractionIds())
	filtered, err = m.Filtered(ItemsNotIn(1, 2))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 5}, filtered.InteractionIds())
}

func TestFilterCommutative(t *testing.T) {
	m := newSelectorMatrix(t)
	a, err := m.Filtered(UsersIn(0, 1))
	require.NoError(t, err)
	a, err = a.Filtered(TimestampsGTE(2))
	require.NoError(t, err)
	b, err := m.Filtered(TimestampsGTE(2))
	require.NoError(t, err)
	b, err = b.Filtered(UsersIn(0, 1))
	require.NoError(t, err)
	c, err := m.Filtered(And(UsersIn(0, 1), TimestampsGTE(2)))
	require.NoError(t, err)
	assert.Equal(t, a.Events(), b.Events())
	assert.Equal(t, a.Events(), c.Events())
	assert.Equal(t, []int{1, 2, 3}, c.InteractionIds())
}

func TestFilterIdempotent(t *testing.T) {
	m := newSelectorMatrix(t)
	once, err := m.Filtered(ItemsIn(0, 2))
	require.NoError(t, err)
	twice, err := once.Filtered(ItemsIn(0, 2))
	require.NoError(t, err)
	assert.Equal(t, once.Events(), twice.Events())
}

func TestTimestamps(t *testing.T) {
	m := newSelectorMatrix(t)
	for _, c := range []struct {
		selector Selector
		expected []int
	}{
		{TimestampsGT(3), []int{3, 4, 5}},
		{TimestampsGTE(3), []int{2, 3, 4, 5}},
		{TimestampsLT(3), []int{0, 1}},
		{TimestampsLTE(3), []int{0, 1, 2}},
	} {
		filtered, err := m.Filtered(c.selector)
		assert.NoError(t, err)
		assert.Equal(t, c.expected, filtered.InteractionIds())
	}
	assert.Equal(t, ">=", GE.String())

	noTimestamps := newTestMatrix(t, []int32{0}, []int32{0}, nil)
	_, err := noTimestamps.Filtered(TimestampsGT(0))
	assert.ErrorIs(t, err, ErrMissingTimestamp)
	assert.ErrorIs(t, noTimestamps.Retain(TimestampsLT(0)), ErrMissingTimestamp)
	assert.Equal(t, 1, noTimestamps.NumInteractions())
}

func TestInteractionsIn(t *testing.T) {
	logs := observeWarnings(t)
	m := newSelectorMatrix(t)
	filtered, err := m.Filtered(InteractionsIn(5, 1, 42, 7))
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 5}, filtered.InteractionIds())
	require.Equal(t, 1, warningsOf(logs, UnknownIdentifierWarning))
	entry := logs.FilterField(zap.String(log.WarningKey, string(UnknownIdentifierWarning))).All()[0]
	assert.Equal(t, []any{7, 42}, entry.ContextMap()["interaction_ids"])

	filtered, err = m.Filtered(InteractionsIn())
	assert.NoError(t, err)
	assert.Zero(t, filtered.NumInteractions())
	assert.Equal(t, m.Shape(), filtered.Shape())
	assert.Equal(t, 1, warningsOf(logs, EmptySelectionWarning))
}

func TestIndicesIn(t *testing.T) {
	m := newSelectorMatrix(t)
	filtered, err := m.Filtered(IndicesIn([]int32{1, 0}, []int32{2, 0}))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 3}, filtered.InteractionIds())

	_, err = m.Filtered(IndicesIn([]int32{1, 0}, []int32{0, 0}))
	assert.ErrorIs(t, err, ErrUnknownIndex)
	_, err = m.Filtered(IndicesIn([]int32{1}, []int32{}))
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestWhere(t *testing.T) {
	m := newSelectorMatrix(t)
	filtered, err := m.Filtered(Where(func(e Event) bool {
		return e.UserId == e.ItemId
	}))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, filtered.InteractionIds())
}

func TestRetain(t *testing.T) {
	logs := observeWarnings(t)
	m := newSelectorMatrix(t)
	assert.NoError(t, m.Retain(UsersIn(3)))
	assert.Equal(t, []Event{{InteractionId: 5, UserId: 3, ItemId: 0, Timestamp: 6}}, m.Events())
	assert.Equal(t, Shape{NumUsers: 5, NumItems: 4}, m.Shape())
	assert.NoError(t, m.Retain(UsersIn(0)))
	assert.Zero(t, m.NumInteractions())
	assert.Equal(t, 1, warningsOf(logs, EmptySelectionWarning))
}

func TestMinDistinct(t *testing.T) {
	logs := observeWarnings(t)
	m := newSelectorMatrix(t)
	filtered, err := m.Filtered(MinItemsPerUser(2))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, filtered.InteractionIds())
	filtered, err = m.Filtered(MinUsersPerItem(2))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, filtered.InteractionIds())
	filtered, err = m.Filtered(MinUsersPerItem(3))
	assert.NoError(t, err)
	assert.Zero(t, filtered.NumInteractions())
	assert.Equal(t, 1, warningsOf(logs, EmptySelectionWarning))

	// repeated events count once
	repeated := newTestMatrix(t, []int32{0, 0, 1, 1}, []int32{0, 0, 0, 1}, nil)
	filtered, err = repeated.Filtered(MinItemsPerUser(2))
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 3}, filtered.InteractionIds())
}
