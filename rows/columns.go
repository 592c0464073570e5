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

package rows

import "fmt"

// Column is the canonical, shape-agnostic form of one chart series: a unique
// display name, its per-row values, and an optional highlight overlay.
type Column struct {
	Name       string
	Values     []any
	Highlights []any
}

// HasHighlights reports whether the receiver's highlight overlay contains any
// nonzero value among the provided row indices.
func (c *Column) HasHighlights(rowIdxs []int) bool {
	if c.Highlights == nil {
		return false
	}
	for _, idx := range rowIdxs {
		if idx < 0 || idx >= len(c.Highlights) {
			continue
		}
		if v, ok := Number(c.Highlights[idx]); ok && v != 0 {
			return true
		}
	}
	return false
}

// Columns resolves the series of src into canonical Columns, naming each
// through the provided NameRegistry:
//
//   - with a legend grouping and one measure per group, one Column per group,
//     named after the group;
//   - with a legend grouping and several measures per group, one Column per
//     (group, measure) pair, named "{group} · {measure}";
//   - without a grouping, one Column per measure, named after the measure or
//     "Series {i}" if it is unnamed.
//
// A nil NameRegistry gets a fresh one.
func Columns(src *Source, reg *NameRegistry) []Column {
	if src == nil {
		return nil
	}
	if reg == nil {
		reg = NewNameRegistry()
	}
	ret := []Column{}
	add := func(name string, m Measure) {
		ret = append(ret, Column{
			Name:       reg.Unique(name),
			Values:     m.Values,
			Highlights: m.Highlights,
		})
	}
	if len(src.Groupings) > 0 {
		for _, g := range src.Groupings {
			if len(g.Measures) == 1 {
				add(g.Name, g.Measures[0])
				continue
			}
			for _, m := range g.Measures {
				add(fmt.Sprintf("%s · %s", g.Name, m.Name), m)
			}
		}
		return ret
	}
	for idx, m := range src.Measures {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("Series %d", idx+1)
		}
		add(name, m)
	}
	return ret
}
