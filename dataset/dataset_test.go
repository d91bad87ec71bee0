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

package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorse-io/streamsight/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	text := "user,item,rating,timestamp\n" +
		"alice,apple,5,10\n" +
		"bob,banana,3,20\n" +
		"alice,banana,4,30\n" +
		"\n" +
		"carol,\"cherry, red\",1,40\n"
	d, err := LoadCSV(strings.NewReader(text), CSVOptions{HasHeader: true, Format: "ui_t"})
	require.NoError(t, err)
	assert.Equal(t, 3, d.CountUsers())
	assert.Equal(t, 3, d.CountItems())
	assert.Equal(t, matrix.DefaultSchema, d.Schema())
	assert.Equal(t, 4, d.Table().Len())
	name, ok := d.ItemDict().String(2)
	assert.True(t, ok)
	assert.Equal(t, "cherry, red", name)
	assert.Equal(t, 2, d.UserDict().Freq(0))

	m, err := d.Matrix()
	require.NoError(t, err)
	assert.Equal(t, matrix.Shape{NumUsers: 3, NumItems: 3}, m.Shape())
	assert.True(t, m.HasTimestamps())
	assert.Equal(t, []matrix.Event{
		{InteractionId: 0, UserId: 0, ItemId: 0, Timestamp: 10},
		{InteractionId: 1, UserId: 1, ItemId: 1, Timestamp: 20},
		{InteractionId: 2, UserId: 0, ItemId: 1, Timestamp: 30},
		{InteractionId: 3, UserId: 2, ItemId: 2, Timestamp: 40},
	}, m.Events())
}

func TestLoadCSVWithoutTimestamps(t *testing.T) {
	d, err := LoadCSV(strings.NewReader("1\t2\n3\t4\n"), CSVOptions{Sep: "\t", Format: "ui"})
	require.NoError(t, err)
	assert.Empty(t, d.Schema().Timestamp)
	m, err := d.Matrix()
	require.NoError(t, err)
	assert.False(t, m.HasTimestamps())
	assert.Equal(t, 2, m.NumInteractions())
}

func TestLoadCSVDates(t *testing.T) {
	d, err := LoadCSV(strings.NewReader("u1,i1,2020-01-01\nu2,i1,2020-01-02 00:00:00\n"), CSVOptions{})
	require.NoError(t, err)
	m, err := d.Matrix()
	require.NoError(t, err)
	assert.Equal(t, []float64{1577836800, 1577923200}, m.Timestamps())
}

func TestLoadCSVError(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("1,2\n"), CSVOptions{Format: "uit"})
	assert.ErrorIs(t, err, matrix.ErrInvalidSource)
	assert.Contains(t, err.Error(), "line 1")
	_, err = LoadCSV(strings.NewReader("1,2,3\n1,2,yesterday-ish\n"), CSVOptions{})
	assert.ErrorIs(t, err, matrix.ErrInvalidSource)
	assert.Contains(t, err.Error(), "line 2")
	_, err = LoadCSV(strings.NewReader(""), CSVOptions{Format: "ux"})
	assert.Error(t, err)
	_, err = LoadCSV(strings.NewReader(""), CSVOptions{Format: "uu"})
	assert.Error(t, err)
	_, err = LoadCSV(strings.NewReader(""), CSVOptions{Format: "t"})
	assert.Error(t, err)
	_, err = LoadCSV(strings.NewReader(""), CSVOptions{Sep: "::"})
	assert.Error(t, err)
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2,3\n"), 0644))
	d, err := LoadCSVFile(path, CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Table().Len())
	_, err = LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), CSVOptions{})
	assert.Error(t, err)

	empty, err := LoadCSV(strings.NewReader(""), CSVOptions{})
	require.NoError(t, err)
	m, err := empty.Matrix()
	require.NoError(t, err)
	assert.Zero(t, m.NumInteractions())
}

func TestFilters(t *testing.T) {
	// carol sees one item, durian is seen by one user
	text := "alice,apple,1\n" +
		"alice,banana,2\n" +
		"bob,apple,3\n" +
		"bob,banana,4\n" +
		"bob,banana,5\n" +
		"carol,apple,6\n" +
		"alice,durian,7\n"
	d, err := LoadCSV(strings.NewReader(text), CSVOptions{})
	require.NoError(t, err)
	m, err := d.Matrix()
	require.NoError(t, err)
	assert.NoError(t, Filters{MinUsersPerItem: 2, MinItemsPerUser: 2}.Apply(m))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, m.InteractionIds())
	assert.Equal(t, matrix.Shape{NumUsers: 3, NumItems: 3}, m.Shape())

	m, err = d.Matrix()
	require.NoError(t, err)
	assert.NoError(t, Filters{}.Apply(m))
	assert.Equal(t, 7, m.NumInteractions())
}
