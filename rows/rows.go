/*
	Copyright 2025 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package rows defines the tabular row source a chart is built from, and
// normalizes its several possible shapes into one canonical column form.
//
// A Source holds parallel arrays: row i across LevelOne, LevelTwo, and every
// measure's Values describes one observation.  Measures may be grouped by a
// legend dimension (Groupings) or ungrouped (Measures).
package rows

import (
	"math"
	"strconv"
	"strings"
)

// Measure is one numeric column.  Values may hold numbers, numeric strings,
// or nil.  Highlights, if non-nil, is a host-supplied cross-filter overlay
// aligned with Values.
type Measure struct {
	Name       string
	Values     []any
	Highlights []any
}

// Grouping is one value of a legend dimension, with the measures observed
// under it.
type Grouping struct {
	Name     string
	Measures []Measure
}

// Source is a flattened host data view.
type Source struct {
	LevelOne  []any
	LevelTwo  []any
	Groupings []Grouping
	Measures  []Measure
}

// Len returns the number of rows in the receiver, which is the length of its
// level-one category column.
func (s *Source) Len() int {
	if s == nil {
		return 0
	}
	return len(s.LevelOne)
}

// HasLevelTwo reports whether the receiver carries a level-two category
// column aligned with its level-one column.
func (s *Source) HasLevelTwo() bool {
	return s != nil && len(s.LevelTwo) > 0 && len(s.LevelTwo) == len(s.LevelOne)
}

// Valid reports whether the receiver's parallel arrays agree in length.  An
// absent level-two column or highlight overlay is valid.
func (s *Source) Valid() bool {
	if s == nil || len(s.LevelOne) == 0 {
		return false
	}
	n := len(s.LevelOne)
	if len(s.LevelTwo) != 0 && len(s.LevelTwo) != n {
		return false
	}
	measureOK := func(m Measure) bool {
		return len(m.Values) == n && (m.Highlights == nil || len(m.Highlights) == n)
	}
	for _, g := range s.Groupings {
		for _, m := range g.Measures {
			if !measureOK(m) {
				return false
			}
		}
	}
	for _, m := range s.Measures {
		if !measureOK(m) {
			return false
		}
	}
	return true
}

// Number coerces a cell to a float64 for summation.  The boolean result is
// false only for nil cells, which are absent rather than zero; blank,
// non-numeric, and non-finite cells contribute zero.
func Number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case *float64:
		if x == nil {
			return 0, false
		}
		f = *x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, true
		}
		f = parsed
	default:
		return 0, true
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true
	}
	return f, true
}
