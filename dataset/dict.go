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

// FreqDict maps raw identifiers to dense ids in order of first appearance and
// counts how often each identifier was seen.
type FreqDict struct {
	si  map[string]int32
	is  []string
	cnt []int
}

func NewFreqDict() *FreqDict {
	return &FreqDict{si: make(map[string]int32)}
}

func (d *FreqDict) Count() int {
	return len(d.is)
}

// Id returns the dense id of s and counts one occurrence.
func (d *FreqDict) Id(s string) int32 {
	y := d.NotCount(s)
	d.cnt[y]++
	return y
}

// NotCount returns the dense id of s without counting it.
func (d *FreqDict) NotCount(s string) int32 {
	if y, ok := d.si[s]; ok {
		return y
	}
	y := int32(len(d.is))
	d.si[s] = y
	d.is = append(d.is, s)
	d.cnt = append(d.cnt, 0)
	return y
}

func (d *FreqDict) String(id int32) (string, bool) {
	if id < 0 || int(id) >= len(d.is) {
		return "", false
	}
	return d.is[id], true
}

func (d *FreqDict) Freq(id int32) int {
	if id < 0 || int(id) >= len(d.cnt) {
		return 0
	}
	return d.cnt[id]
}

// MostFrequent returns the identifier counted most often and its count. Ties go to
// the identifier seen first.
func (d *FreqDict) MostFrequent() (string, int, bool) {
	if d.Count() == 0 {
		return "", 0, false
	}
	var best int32
	for id := int32(1); int(id) < d.Count(); id++ {
		if d.Freq(id) > d.Freq(best) {
			best = id
		}
	}
	s, _ := d.String(best)
	return s, d.Freq(best), true
}
