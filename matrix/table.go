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
	"github.com/juju/errors"
)

// Source is a raw columnar event log.
type Source interface {
	// Len returns the number of rows.
	Len() int
	// Int32Column returns the integer column with the given name.
	Int32Column(name string) ([]int32, bool)
	// Float64Column returns the real column with the given name.
	Float64Column(name string) ([]float64, bool)
}

// Schema names the source columns holding users, items and timestamps.
// An empty Timestamp means the event log has no timestamps.
type Schema struct {
	User      string
	Item      string
	Timestamp string
}

// DefaultSchema is the schema of tables produced by the dataset loaders.
var DefaultSchema = Schema{User: "uid", Item: "iid", Timestamp: "ts"}

// Table is an in-memory Source.
type Table struct {
	length   int
	integers map[string][]int32
	reals    map[string][]float64
}

func NewTable() *Table {
	return &Table{
		integers: make(map[string][]int32),
		reals:    make(map[string][]float64),
	}
}

// AddInt32Column adds an integer column. All columns of a table must have the same length.
func (t *Table) AddInt32Column(name string, values []int32) error {
	if err := t.checkColumn(name, len(values)); err != nil {
		return errors.Trace(err)
	}
	t.integers[name] = values
	return nil
}

// AddFloat64Column adds a real column. All columns of a table must have the same length.
func (t *Table) AddFloat64Column(name string, values []float64) error {
	if err := t.checkColumn(name, len(values)); err != nil {
		return errors.Trace(err)
	}
	t.reals[name] = values
	return nil
}

func (t *Table) checkColumn(name string, n int) error {
	if _, exist := t.integers[name]; exist {
		return errors.WithType(errors.Errorf("duplicate column `%s`", name), ErrInvalidSource)
	}
	if _, exist := t.reals[name]; exist {
		return errors.WithType(errors.Errorf("duplicate column `%s`", name), ErrInvalidSource)
	}
	if len(t.integers)+len(t.reals) > 0 && n != t.length {
		return errors.WithType(errors.Errorf("column `%s` has %d rows, but the table has %d rows",
			name, n, t.length), ErrInvalidSource)
	}
	t.length = n
	return nil
}

func (t *Table) Len() int {
	return t.length
}

func (t *Table) Int32Column(name string) ([]int32, bool) {
	values, ok := t.integers[name]
	return values, ok
}

func (t *Table) Float64Column(name string) ([]float64, bool) {
	values, ok := t.reals[name]
	return values, ok
}
