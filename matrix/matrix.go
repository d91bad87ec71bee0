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
	"fmt"
	"math"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"
)

// Event is a single user-item interaction.
type Event struct {
	InteractionId int
	UserId        int32
	ItemId        int32
	// Timestamp is meaningful only if the owning matrix has timestamps.
	Timestamp float64
}

// Shape is the logical bound of user and item identifiers.
type Shape struct {
	NumUsers int
	NumItems int
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.NumUsers, s.NumItems)
}

// Properties summarizes an InteractionMatrix.
type Properties struct {
	NumUsers        int  `json:"num_users"`
	NumItems        int  `json:"num_items"`
	NumInteractions int  `json:"num_interactions"`
	NumActiveUsers  int  `json:"num_active_users"`
	NumActiveItems  int  `json:"num_active_items"`
	HasTimestamps   bool `json:"has_timestamps"`
}

// InteractionMatrix is an event log of user-item interactions bounded by a shape.
//
// The same (user, item) pair may occur several times. Events are kept in the order
// of the source table. Interaction ids are unique but not necessarily contiguous:
// filtering keeps the ids of the selected events, while Union renumbers them.
type InteractionMatrix struct {
	interactionIds []int
	userIds        []int32
	itemIds        []int32
	timestamps     []float64
	hasTimestamps  bool
	shape          Shape
}

type options struct {
	shape *Shape
}

// Option configures New.
type Option func(*options)

// WithShape sets the shape of the matrix. Without it the shape is the maximum
// user and item identifiers plus one.
func WithShape(shape Shape) Option {
	return func(o *options) {
		o.shape = &shape
	}
}

// New creates an InteractionMatrix from a source table. Interaction ids are
// assigned sequentially in row order.
func New(source Source, schema Schema, opts ...Option) (*InteractionMatrix, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	users, ok := source.Int32Column(schema.User)
	if !ok {
		return nil, errors.WithType(errors.Errorf("user column `%s` not found", schema.User), ErrInvalidSource)
	}
	items, ok := source.Int32Column(schema.Item)
	if !ok {
		return nil, errors.WithType(errors.Errorf("item column `%s` not found", schema.Item), ErrInvalidSource)
	}
	n := source.Len()
	if len(users) != n || len(items) != n {
		return nil, errors.WithType(errors.Errorf("expect %d rows, but got %d users and %d items",
			n, len(users), len(items)), ErrInvalidSource)
	}
	m := &InteractionMatrix{
		interactionIds: make([]int, n),
		userIds:        slices.Clone(users),
		itemIds:        slices.Clone(items),
	}
	for i := range m.interactionIds {
		m.interactionIds[i] = i
	}
	if schema.Timestamp != "" {
		if timestamps, exist := source.Float64Column(schema.Timestamp); exist {
			if len(timestamps) != n {
				return nil, errors.WithType(errors.Errorf("expect %d timestamps, but got %d",
					n, len(timestamps)), ErrInvalidSource)
			}
			if missing := countNaN(timestamps); missing > 0 {
				return nil, errors.WithType(errors.Errorf("%d of %d events have no timestamp",
					missing, n), ErrMixedTimestamps)
			}
			m.timestamps = slices.Clone(timestamps)
			m.hasTimestamps = true
		}
	}
	if err := m.initShape(o.shape); err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}

// FromEvents creates an InteractionMatrix from numbered events. A nil shape is
// inferred from the identifiers.
func FromEvents(events []Event, shape *Shape, hasTimestamps bool) (*InteractionMatrix, error) {
	m := &InteractionMatrix{
		interactionIds: make([]int, len(events)),
		userIds:        make([]int32, len(events)),
		itemIds:        make([]int32, len(events)),
		hasTimestamps:  hasTimestamps,
	}
	if hasTimestamps {
		m.timestamps = make([]float64, len(events))
	}
	seen := mapset.NewThreadUnsafeSetWithSize[int](len(events))
	for i, event := range events {
		if !seen.Add(event.InteractionId) {
			return nil, errors.WithType(errors.Errorf("duplicate interaction id %d", event.InteractionId), ErrInvalidSource)
		}
		m.interactionIds[i] = event.InteractionId
		m.userIds[i] = event.UserId
		m.itemIds[i] = event.ItemId
		if hasTimestamps {
			if math.IsNaN(event.Timestamp) {
				return nil, errors.WithType(errors.Errorf("interaction %d has no timestamp", event.InteractionId), ErrMixedTimestamps)
			}
			m.timestamps[i] = event.Timestamp
		}
	}
	if err := m.initShape(shape); err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}

func (m *InteractionMatrix) initShape(shape *Shape) error {
	minUsers, minItems := 0, 0
	for i := range m.userIds {
		if m.userIds[i] < 0 || m.itemIds[i] < 0 {
			return errors.WithType(errors.Errorf("negative identifier (user %d, item %d) at row %d",
				m.userIds[i], m.itemIds[i], i), ErrInvalidIdentifier)
		}
		minUsers = max(minUsers, int(m.userIds[i])+1)
		minItems = max(minItems, int(m.itemIds[i])+1)
	}
	if shape == nil {
		m.shape = Shape{NumUsers: minUsers, NumItems: minItems}
		return nil
	}
	if shape.NumUsers < minUsers {
		return errors.WithType(errors.Errorf("can't have fewer rows than maximal user identifier: %d < %d",
			shape.NumUsers, minUsers), ErrShapeMismatch)
	}
	if shape.NumItems < minItems {
		return errors.WithType(errors.Errorf("can't have fewer columns than maximal item identifier: %d < %d",
			shape.NumItems, minItems), ErrShapeMismatch)
	}
	m.shape = *shape
	return nil
}

func countNaN(values []float64) int {
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			count++
		}
	}
	return count
}

// Shape returns the logical shape (number of users, number of items).
func (m *InteractionMatrix) Shape() Shape {
	return m.shape
}

// HasTimestamps returns true if every event carries a timestamp.
func (m *InteractionMatrix) HasTimestamps() bool {
	return m.hasTimestamps
}

// NumInteractions returns the number of events.
func (m *InteractionMatrix) NumInteractions() int {
	return len(m.interactionIds)
}

// Events returns a copy of the events in log order.
func (m *InteractionMatrix) Events() []Event {
	events := make([]Event, len(m.interactionIds))
	for i := range events {
		events[i] = m.event(i)
	}
	return events
}

func (m *InteractionMatrix) event(i int) Event {
	e := Event{
		InteractionId: m.interactionIds[i],
		UserId:        m.userIds[i],
		ItemId:        m.itemIds[i],
	}
	if m.hasTimestamps {
		e.Timestamp = m.timestamps[i]
	}
	return e
}

func (m *InteractionMatrix) InteractionIds() []int {
	return slices.Clone(m.interactionIds)
}

func (m *InteractionMatrix) UserIds() []int32 {
	return slices.Clone(m.userIds)
}

func (m *InteractionMatrix) ItemIds() []int32 {
	return slices.Clone(m.itemIds)
}

// Timestamps returns a copy of the timestamps, or nil if the matrix has none.
func (m *InteractionMatrix) Timestamps() []float64 {
	return slices.Clone(m.timestamps)
}

// MinTimestamp returns the earliest timestamp.
func (m *InteractionMatrix) MinTimestamp() (float64, error) {
	if err := m.checkTimestamps(); err != nil {
		return 0, errors.Trace(err)
	}
	return floats.Min(m.timestamps), nil
}

// MaxTimestamp returns the latest timestamp.
func (m *InteractionMatrix) MaxTimestamp() (float64, error) {
	if err := m.checkTimestamps(); err != nil {
		return 0, errors.Trace(err)
	}
	return floats.Max(m.timestamps), nil
}

func (m *InteractionMatrix) checkTimestamps() error {
	if !m.hasTimestamps {
		return errors.WithType(errors.New("interaction matrix has no timestamps"), ErrMissingTimestamp)
	}
	if len(m.timestamps) == 0 {
		return errors.WithType(errors.New("interaction matrix has no events"), ErrEmptyMatrix)
	}
	return nil
}

// Values returns the number of events per (user, item) as a sparse matrix of the matrix shape.
func (m *InteractionMatrix) Values() *CSR {
	return newCSR(m.shape, m.userIds, m.itemIds)
}

// BinaryValues returns 1 for every (user, item) with at least one event.
func (m *InteractionMatrix) BinaryValues() *CSR {
	return m.Values().Binary()
}

// Indices returns the users and items of the (user, item) pairs with at least one event.
func (m *InteractionMatrix) Indices() (users, items []int32) {
	return m.Values().NonZero()
}

// Nonzero is an alias of Indices.
func (m *InteractionMatrix) Nonzero() (users, items []int32) {
	return m.Indices()
}

// ActiveUsers returns the users with at least one event.
func (m *InteractionMatrix) ActiveUsers() mapset.Set[int32] {
	users, _ := m.Indices()
	return mapset.NewSet(users...)
}

func (m *InteractionMatrix) NumActiveUsers() int {
	return m.ActiveUsers().Cardinality()
}

// ActiveItems returns the items with at least one event.
func (m *InteractionMatrix) ActiveItems() mapset.Set[int32] {
	_, items := m.Indices()
	return mapset.NewSet(items...)
}

func (m *InteractionMatrix) NumActiveItems() int {
	return m.ActiveItems().Cardinality()
}

func (m *InteractionMatrix) Properties() Properties {
	return Properties{
		NumUsers:        m.shape.NumUsers,
		NumItems:        m.shape.NumItems,
		NumInteractions: m.NumInteractions(),
		NumActiveUsers:  m.NumActiveUsers(),
		NumActiveItems:  m.NumActiveItems(),
		HasTimestamps:   m.hasTimestamps,
	}
}

// Copy creates a deep copy.
func (m *InteractionMatrix) Copy() *InteractionMatrix {
	return &InteractionMatrix{
		interactionIds: slices.Clone(m.interactionIds),
		userIds:        slices.Clone(m.userIds),
		itemIds:        slices.Clone(m.itemIds),
		timestamps:     slices.Clone(m.timestamps),
		hasTimestamps:  m.hasTimestamps,
		shape:          m.shape,
	}
}

// Union concatenates the events of this matrix and another one. Both matrices must
// have the same shape and agree on timestamps. Interaction ids of the result are
// renumbered from zero, so ids taken from either operand are no longer valid.
func (m *InteractionMatrix) Union(other *InteractionMatrix) (*InteractionMatrix, error) {
	if m.shape != other.shape {
		return nil, errors.WithType(errors.Errorf("this interaction matrix has shape %v, the other %v",
			m.shape, other.shape), ErrShapeMismatch)
	}
	if m.hasTimestamps != other.hasTimestamps {
		return nil, errors.WithType(errors.New("can't union interaction matrices with and without timestamps"),
			ErrMixedTimestamps)
	}
	n := m.NumInteractions() + other.NumInteractions()
	union := &InteractionMatrix{
		interactionIds: make([]int, n),
		userIds:        slices.Concat(m.userIds, other.userIds),
		itemIds:        slices.Concat(m.itemIds, other.itemIds),
		hasTimestamps:  m.hasTimestamps,
		shape:          m.shape,
	}
	if m.hasTimestamps {
		union.timestamps = slices.Concat(m.timestamps, other.timestamps)
	}
	for i := range union.interactionIds {
		union.interactionIds[i] = i
	}
	return union, nil
}
