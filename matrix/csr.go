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

	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix. Column indices in each row are sorted
// and unique, and every stored value is non-zero.
type CSR struct {
	rows    int
	cols    int
	indptr  []int
	indices []int32
	data    []float64
}

var _ mat.Matrix = (*CSR)(nil)

// newCSR counts the (row, column) pairs into a CSR matrix.
func newCSR(shape Shape, rows, cols []int32) *CSR {
	m := &CSR{
		rows:   shape.NumUsers,
		cols:   shape.NumItems,
		indptr: make([]int, shape.NumUsers+1),
	}
	// bucket columns by row
	offsets := make([]int, shape.NumUsers+1)
	for _, r := range rows {
		offsets[r+1]++
	}
	for i := 1; i < len(offsets); i++ {
		offsets[i] += offsets[i-1]
	}
	cursor := slices.Clone(offsets)
	buckets := make([]int32, len(cols))
	for k, r := range rows {
		buckets[cursor[r]] = cols[k]
		cursor[r]++
	}
	// merge duplicates in each row
	m.indices = make([]int32, 0, len(cols))
	m.data = make([]float64, 0, len(cols))
	for r := 0; r < shape.NumUsers; r++ {
		row := buckets[offsets[r]:offsets[r+1]]
		slices.Sort(row)
		for k, c := range row {
			if k > 0 && row[k-1] == c {
				m.data[len(m.data)-1]++
			} else {
				m.indices = append(m.indices, c)
				m.data = append(m.data, 1)
			}
		}
		m.indptr[r+1] = len(m.indices)
	}
	return m
}

// Dims returns the number of rows and columns.
func (m *CSR) Dims() (r, c int) {
	return m.rows, m.cols
}

// At returns the value at (i, j).
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= m.cols {
		panic(mat.ErrColAccess)
	}
	cols := m.indices[m.indptr[i]:m.indptr[i+1]]
	if k, found := slices.BinarySearch(cols, int32(j)); found {
		return m.data[m.indptr[i]+k]
	}
	return 0
}

// T returns the transpose view.
func (m *CSR) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// NNZ returns the number of stored values.
func (m *CSR) NNZ() int {
	return len(m.data)
}

// Sum returns the sum of all values.
func (m *CSR) Sum() float64 {
	var sum float64
	for _, v := range m.data {
		sum += v
	}
	return sum
}

// Row returns the columns and values stored in row i. The slices must not be modified.
func (m *CSR) Row(i int) ([]int32, []float64) {
	if i < 0 || i >= m.rows {
		panic(mat.ErrRowAccess)
	}
	return m.indices[m.indptr[i]:m.indptr[i+1]], m.data[m.indptr[i]:m.indptr[i+1]]
}

// DoNonZero calls fn for every stored value in row-major order.
func (m *CSR) DoNonZero(fn func(i, j int, v float64)) {
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			fn(i, int(m.indices[k]), m.data[k])
		}
	}
}

// NonZero returns the row and column indices of the stored values in row-major order.
func (m *CSR) NonZero() (rows, cols []int32) {
	rows = make([]int32, 0, m.NNZ())
	cols = make([]int32, 0, m.NNZ())
	m.DoNonZero(func(i, j int, _ float64) {
		rows = append(rows, int32(i))
		cols = append(cols, int32(j))
	})
	return
}

// Binary returns a copy with every stored value set to 1.
func (m *CSR) Binary() *CSR {
	data := make([]float64, len(m.data))
	for i := range data {
		data[i] = 1
	}
	return &CSR{
		rows:    m.rows,
		cols:    m.cols,
		indptr:  slices.Clone(m.indptr),
		indices: slices.Clone(m.indices),
		data:    data,
	}
}
