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

// Package dataset loads event logs from delimited text files into interaction matrices.
package dataset

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/gorse-io/streamsight/base/log"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// CSVOptions describes the layout of a delimited event log.
type CSVOptions struct {
	// Sep is the field separator. Defaults to ",".
	Sep string
	// HasHeader skips the first record.
	HasHeader bool
	// Format assigns a meaning to every column: u (user), i (item), t (timestamp)
	// or _ (ignored). Defaults to "uit".
	Format string
}

type columns struct {
	user      int
	item      int
	timestamp int
	width     int
}

func parseFormat(format string) (columns, error) {
	c := columns{user: -1, item: -1, timestamp: -1, width: len(format)}
	for i, ch := range format {
		var target *int
		switch ch {
		case 'u':
			target = &c.user
		case 'i':
			target = &c.item
		case 't':
			target = &c.timestamp
		case '_':
			continue
		default:
			return c, errors.NotValidf("column `%c` in format `%s`", ch, format)
		}
		if *target >= 0 {
			return c, errors.NotValidf("duplicate column `%c` in format `%s`", ch, format)
		}
		*target = i
	}
	if c.user < 0 || c.item < 0 {
		return c, errors.NotValidf("format `%s` without user or item", format)
	}
	return c, nil
}

// Filters drop rare users and items. A zero threshold disables its filter.
type Filters struct {
	MinUsersPerItem int
	MinItemsPerUser int
}

// Apply removes the events on items seen by fewer than MinUsersPerItem distinct users,
// then the events of users with fewer than MinItemsPerUser distinct items. Each filter
// runs once, so the second one may leave items below their threshold.
func (f Filters) Apply(m *matrix.InteractionMatrix) error {
	before := m.NumInteractions()
	if f.MinUsersPerItem > 0 {
		if err := m.Retain(matrix.MinUsersPerItem(f.MinUsersPerItem)); err != nil {
			return errors.Trace(err)
		}
	}
	if f.MinItemsPerUser > 0 {
		if err := m.Retain(matrix.MinItemsPerUser(f.MinItemsPerUser)); err != nil {
			return errors.Trace(err)
		}
	}
	log.Logger().Info("filter dataset",
		zap.Int("min_users_per_item", f.MinUsersPerItem),
		zap.Int("min_items_per_user", f.MinItemsPerUser),
		zap.Int("num_removed", before-m.NumInteractions()))
	return nil
}

// Dataset is an event log with dense user and item ids.
type Dataset struct {
	table    *matrix.Table
	schema   matrix.Schema
	userDict *FreqDict
	itemDict *FreqDict
}

// LoadCSV reads an event log. Raw user and item ids are mapped to dense ids in order
// of first appearance. Timestamps are numbers, or dates converted to Unix seconds.
func LoadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	if opts.Sep == "" {
		opts.Sep = ","
	}
	if opts.Format == "" {
		opts.Format = "uit"
	}
	if utf8.RuneCountInString(opts.Sep) != 1 {
		return nil, errors.NotValidf("separator `%s`", opts.Sep)
	}
	sep, _ := utf8.DecodeRuneInString(opts.Sep)
	cols, err := parseFormat(opts.Format)
	if err != nil {
		return nil, errors.Trace(err)
	}

	d := &Dataset{
		schema:   matrix.DefaultSchema,
		userDict: NewFreqDict(),
		itemDict: NewFreqDict(),
	}
	if cols.timestamp < 0 {
		d.schema.Timestamp = ""
	}
	var users, items []int32
	var timestamps []float64
	header := opts.HasHeader
	err = readLines(bufio.NewScanner(r), sep, func(line int, fields []string) (bool, error) {
		if header {
			header = false
			return true, nil
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			return true, nil
		}
		if len(fields) < cols.width {
			return false, errors.WithType(errors.Errorf("line %d: expect %d fields, but got %d",
				line+1, cols.width, len(fields)), matrix.ErrInvalidSource)
		}
		users = append(users, d.userDict.Id(strings.TrimSpace(fields[cols.user])))
		items = append(items, d.itemDict.Id(strings.TrimSpace(fields[cols.item])))
		if cols.timestamp >= 0 {
			ts, err := ParseTimestamp(fields[cols.timestamp])
			if err != nil {
				return false, errors.WithType(errors.Annotatef(err, "line %d", line+1), matrix.ErrInvalidSource)
			}
			timestamps = append(timestamps, ts)
		}
		return true, nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	d.table = matrix.NewTable()
	if users == nil {
		users, items = []int32{}, []int32{}
	}
	if err = d.table.AddInt32Column(d.schema.User, users); err != nil {
		return nil, errors.Trace(err)
	}
	if err = d.table.AddInt32Column(d.schema.Item, items); err != nil {
		return nil, errors.Trace(err)
	}
	if cols.timestamp >= 0 {
		if timestamps == nil {
			timestamps = []float64{}
		}
		if err = d.table.AddFloat64Column(d.schema.Timestamp, timestamps); err != nil {
			return nil, errors.Trace(err)
		}
	}
	log.Logger().Info("load dataset",
		zap.Int("num_interactions", len(users)),
		zap.Int("num_users", d.CountUsers()),
		zap.Int("num_items", d.CountItems()))
	return d, nil
}

// LoadCSVFile reads an event log from a file.
func LoadCSVFile(path string, opts CSVOptions) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	return LoadCSV(file, opts)
}

// ParseTimestamp parses a number, or a date into Unix seconds. Dates without a time
// zone are in UTC.
func ParseTimestamp(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if ts, err := strconv.ParseFloat(text, 64); err == nil {
		return ts, nil
	}
	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9, nil
}

func (d *Dataset) Table() *matrix.Table {
	return d.table
}

func (d *Dataset) Schema() matrix.Schema {
	return d.schema
}

// Matrix creates an interaction matrix of shape (CountUsers, CountItems).
func (d *Dataset) Matrix() (*matrix.InteractionMatrix, error) {
	m, err := matrix.New(d.table, d.schema, matrix.WithShape(matrix.Shape{
		NumUsers: d.CountUsers(),
		NumItems: d.CountItems(),
	}))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}

func (d *Dataset) CountUsers() int {
	return d.userDict.Count()
}

func (d *Dataset) CountItems() int {
	return d.itemDict.Count()
}

func (d *Dataset) UserDict() *FreqDict {
	return d.userDict
}

func (d *Dataset) ItemDict() *FreqDict {
	return d.itemDict
}
